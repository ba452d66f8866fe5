package storage

import (
	"context"
	"fmt"

	"belezure-api/config"
)

// BlobStore stores uploaded files and hands out retrievable URLs.
// A ref is whatever the backend needs to find the object again.
type BlobStore interface {
	Upload(ctx context.Context, path, contentType string, content []byte) (string, error)
	GetURL(ctx context.Context, ref string) (string, error)
	Delete(ctx context.Context, ref string) error
}

// NewBlobStore builds the backend selected by STORAGE_PROVIDER
func NewBlobStore(ctx context.Context, cfg config.StorageConfig) (BlobStore, error) {
	switch cfg.Provider {
	case config.StorageProviderS3:
		return NewS3BlobStore(ctx, cfg)
	case config.StorageProviderCloudinary:
		return NewCloudinaryBlobStore(cfg)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
