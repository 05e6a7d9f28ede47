// Package blobstore persists the pipeline's intermediate and final
// artifacts as opaque blobs in named containers. Writes always overwrite;
// last writer wins across overlapping runs.
package blobstore

import (
	"context"
	"errors"
	"fmt"

	"mlb_today/pipeline/internal/config"
)

// ErrNotFound is returned by Get when no blob exists at the key
var ErrNotFound = errors.New("blob not found")

// Store is the blob contract consumed by the pipeline. Put creates the
// container if absent and overwrites any existing blob at the key.
type Store interface {
	Put(ctx context.Context, container, name string, data []byte) error
	Get(ctx context.Context, container, name string) ([]byte, error)
	Health(ctx context.Context) error
	Close()
}

// New creates the blob store backend selected by configuration
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.BlobBackend {
	case "redis":
		return NewRedisStore(RedisConfig{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case "postgres":
		return NewPostgresStore(ctx, cfg.DatabaseDSN())
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}
