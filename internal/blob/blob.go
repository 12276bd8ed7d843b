// Package blob stores pipeline media assets and hands out URLs for them.
package blob

import (
	"context"
	"fmt"
	"time"

	"github.com/clipforge/clipforge/internal/config"
)

// Store persists media assets under opaque keys.
type Store interface {
	// Upload streams the file at localPath to key and returns the asset
	// reference recorded on the job.
	Upload(ctx context.Context, key, localPath, contentType string) (string, error)

	// Download fetches the object at key into localPath.
	Download(ctx context.Context, key, localPath string) error

	// PresignedURL returns a time-limited URL for reading key.
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// PublicURL returns the stable URL recorded on published content.
	PublicURL(key string) string

	Delete(ctx context.Context, key string) error
}

// New returns the blob store selected by configuration.
func New(ctx context.Context, cfg config.BlobConfig) (Store, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3Store(ctx, cfg.Bucket, cfg.Region)
	case "local":
		return NewLocalStore(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("unsupported blob backend: %s", cfg.Backend)
	}
}
