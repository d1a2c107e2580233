package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage defines the interface for blob storage operations. One instance
// is bound to one bucket; the service layer holds separate instances for
// portfolio uploads and tech-stack icons.
type Storage interface {
	// Save stores a blob at the given key, overwriting any existing blob
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get retrieves a blob by key
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a blob by key
	Delete(ctx context.Context, key string) error

	// DeleteAll removes several blobs; it stops at the first failure
	DeleteAll(ctx context.Context, keys []string) error

	// Exists checks if a blob exists at the given key
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns a public URL for the blob
	GetURL(ctx context.Context, key string) (string, error)

	// KeyFromURL resolves a public URL produced by GetURL back to a
	// storage key. Returns false for URLs this bucket never produced.
	KeyFromURL(url string) (string, bool)
}

// Config holds storage configuration for one bucket
type Config struct {
	Type            string // local, cloudflare_r2
	BasePath        string // For local storage
	BaseURL         string // Public URL base
	Bucket          string
	AccessKey       string // For R2
	SecretKey       string // For R2
	Endpoint        string // For R2
	CacheControlAge int    // seconds, for upload cache headers
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
