package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/gym-backoffice/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

var ErrNoBucket = errors.New("storage: s3 bucket name is not configured")

// s3Linker presigns GET links for image object keys held in an
// S3-compatible bucket. Absolute URLs are returned unchanged.
type s3Linker struct {
	presignClient *s3.PresignClient
	bucketName    string
	expires       time.Duration
}

// NewLinker returns an S3 linker when a bucket is configured and a
// Passthrough otherwise.
func NewLinker(ctx context.Context, cfg config.S3Config) (Linker, error) {
	if cfg.BucketName == "" {
		return Passthrough{}, nil
	}
	return NewS3Linker(ctx, cfg)
}

// NewS3Linker creates a presigning linker for cfg's bucket.
func NewS3Linker(ctx context.Context, cfg config.S3Config) (Linker, error) {
	if cfg.BucketName == "" {
		return nil, ErrNoBucket
	}

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		log.Error().Str("module", "storage").Err(err).Msg("failed to load AWS SDK config for S3")
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	endpoint := endpointURL(cfg.Endpoint, cfg.UseSSL)
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			// S3-compatible services (MinIO, Spaces) need path-style addressing.
			o.UsePathStyle = true
		}
	})

	expires := cfg.PresignExpiry
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}

	log.Info().Str("module", "storage").Str("endpoint", endpoint).Str("bucket", cfg.BucketName).Msg("s3 image linker initialized")
	return &s3Linker{
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    cfg.BucketName,
		expires:       expires,
	}, nil
}

// ImageURL creates a temporary URL for viewing (GET) the object ref.
func (s *s3Linker) ImageURL(ctx context.Context, ref string) (string, error) {
	if ref == "" || IsURL(ref) {
		return ref, nil
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(strings.TrimPrefix(ref, "/")),
	}, s3.WithPresignExpires(s.expires))
	if err != nil {
		log.Error().Str("module", "storage").Str("key", ref).Err(err).Msg("failed to presign GET URL")
		return "", fmt.Errorf("storage: presign %q: %w", ref, err)
	}
	return req.URL, nil
}

// endpointURL adds a scheme to a bare host:port endpoint.
func endpointURL(endpoint string, useSSL bool) string {
	if endpoint == "" || IsURL(endpoint) {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}
