package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// PageSizes lists the page sizes offered by every list screen.
var PageSizes = []int{10, 25, 50, 100}

// Config holds all configuration for the back-office client.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Session   SessionConfig   `mapstructure:"session"`
	Directory DirectoryConfig `mapstructure:"directory"`
	S3        S3Config        `mapstructure:"s3"`
	Log       LogConfig       `mapstructure:"log"`
}

// APIConfig points the client at the REST backend.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig controls where the bearer credential is persisted.
type SessionConfig struct {
	StorePath string `mapstructure:"store_path"`
	Key       string `mapstructure:"key"`
}

type DirectoryConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// S3Config is used to turn stored image object keys into viewable links.
// Leaving BucketName empty disables presigning; references are shown as-is.
type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var (
	ErrMissingBaseURL  = errors.New("config: api.base_url is required")
	ErrInvalidPageSize = errors.New("config: directory.page_size must be one of 10, 25, 50, 100")
)

// LoadConfig reads configuration from path/config.yaml (optional) and the
// environment. Nested keys map to env vars with '.' replaced by '_',
// e.g. api.base_url -> API_BASE_URL.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("session.store_path", defaultStorePath())
	v.SetDefault("session.key", "token")
	v.SetDefault("directory.page_size", 10)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.presign_expiry", "15m")
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("config: read: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the values that the rest of the client cannot work without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return ErrMissingBaseURL
	}
	if !ValidPageSize(c.Directory.PageSize) {
		return ErrInvalidPageSize
	}
	return nil
}

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	for _, size := range PageSizes {
		if size == n {
			return true
		}
	}
	return false
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".gymctl", "session.json")
	}
	return filepath.Join(home, ".gymctl", "session.json")
}
