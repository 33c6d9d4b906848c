package storage

import (
	"context"
	"strings"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// Linker turns a stored image reference into a URL a viewer can open.
type Linker interface {
	// ImageURL returns a link for ref. An empty ref yields an empty link.
	ImageURL(ctx context.Context, ref string) (string, error)
}

// Passthrough returns references unchanged. It is used when images are
// served directly by the backend.
type Passthrough struct{}

func (Passthrough) ImageURL(_ context.Context, ref string) (string, error) {
	return ref, nil
}

// IsURL reports whether ref is already an absolute http(s) link.
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
