package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage implements Storage interface for local filesystem. Blobs
// live under basePath/bucket; public URLs carry the bucket as a path
// segment so KeyFromURL can recover the key.
type LocalStorage struct {
	basePath string
	baseURL  string
	bucket   string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(cfg Config) (*LocalStorage, error) {
	if cfg.BasePath == "" {
		cfg.BasePath = "./uploads"
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	// Create bucket directory if it doesn't exist
	if err := os.MkdirAll(filepath.Join(cfg.BasePath, cfg.Bucket), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: cfg.BasePath,
		baseURL:  cfg.BaseURL,
		bucket:   cfg.Bucket,
	}, nil
}

// Save stores a blob locally
func (s *LocalStorage) Save(ctx context.Context, key string, reader io.Reader, contentType string) error {
	fullPath := filepath.Join(s.basePath, s.bucket, key)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Get retrieves a blob from local storage
func (s *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.basePath, s.bucket, key))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes a blob from local storage
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath := filepath.Join(s.basePath, s.bucket, key)

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// DeleteAll removes several blobs
func (s *LocalStorage) DeleteAll(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Exists checks if a blob exists in local storage
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.basePath, s.bucket, key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetURL returns a public URL for the blob
func (s *LocalStorage) GetURL(ctx context.Context, key string) (string, error) {
	if s.baseURL == "" {
		return fmt.Sprintf("/files/%s/%s", s.bucket, key), nil
	}
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key), nil
}

// KeyFromURL recovers the storage key from a public URL by locating the
// bucket path segment. Strings that are not URLs of this bucket (inline
// markup, foreign URLs) resolve to false.
func (s *LocalStorage) KeyFromURL(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, part := range parts {
		if part == s.bucket && i+1 < len(parts) {
			return path.Join(parts[i+1:]...), true
		}
	}
	return "", false
}
