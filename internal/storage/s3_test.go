package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"alcyxob/gym-backoffice/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testS3Config() config.S3Config {
	return config.S3Config{
		Endpoint:        "localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		BucketName:      "gym-images",
		PresignExpiry:   5 * time.Minute,
	}
}

func TestNewLinker_PassthroughWithoutBucket(t *testing.T) {
	l, err := NewLinker(context.Background(), config.S3Config{})
	require.NoError(t, err)
	assert.IsType(t, Passthrough{}, l)

	got, err := l.ImageURL(context.Background(), "members/1.png")
	require.NoError(t, err)
	assert.Equal(t, "members/1.png", got)
}

func TestS3Linker_PresignsObjectKeys(t *testing.T) {
	l, err := NewLinker(context.Background(), testS3Config())
	require.NoError(t, err)

	raw, err := l.ImageURL(context.Background(), "/members/42.png")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/gym-images/members/42.png", u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestS3Linker_KeepsAbsoluteURLs(t *testing.T) {
	l, err := NewS3Linker(context.Background(), testS3Config())
	require.NoError(t, err)

	for _, ref := range []string{"", "https://cdn.gym.test/a.png", "http://host/b.jpg"} {
		got, err := l.ImageURL(context.Background(), ref)
		require.NoError(t, err)
		assert.Equal(t, ref, got)
	}
}

func TestNewS3Linker_RequiresBucket(t *testing.T) {
	_, err := NewS3Linker(context.Background(), config.S3Config{Region: "us-east-1"})
	assert.ErrorIs(t, err, ErrNoBucket)
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "https://s3.gym.test", endpointURL("s3.gym.test", true))
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "http://x", endpointURL("http://x", true))
	assert.Empty(t, endpointURL("", true))
}
