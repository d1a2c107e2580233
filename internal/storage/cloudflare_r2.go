package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// CloudflareR2Storage implements Storage interface for Cloudflare R2
// R2 is S3-compatible, so we use the same SDK
type CloudflareR2Storage struct {
	client       *s3.S3
	uploader     *s3manager.Uploader
	bucket       string
	baseURL      string
	cacheControl string
}

// NewCloudflareR2Storage creates a new Cloudflare R2 storage instance
func NewCloudflareR2Storage(cfg Config) (*CloudflareR2Storage, error) {
	// R2 endpoint format: https://<account_id>.r2.cloudflarestorage.com
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required for Cloudflare R2")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	awsConfig := &aws.Config{
		Region:           aws.String("auto"),
		Endpoint:         aws.String(cfg.Endpoint),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create R2 session: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		// Use R2 public URL if configured
		baseURL = fmt.Sprintf("https://%s.r2.dev", cfg.Bucket)
	}

	cacheControl := ""
	if cfg.CacheControlAge > 0 {
		cacheControl = fmt.Sprintf("max-age=%d", cfg.CacheControlAge)
	}

	return &CloudflareR2Storage{
		client:       s3.New(sess),
		uploader:     s3manager.NewUploader(sess),
		bucket:       cfg.Bucket,
		baseURL:      strings.TrimRight(baseURL, "/"),
		cacheControl: cacheControl,
	}, nil
}

// Save uploads a blob to R2. Puts overwrite, which gives the upsert
// semantics the sync protocols rely on.
func (s *CloudflareR2Storage) Save(ctx context.Context, key string, reader io.Reader, contentType string) error {
	input := &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
	}
	if s.cacheControl != "" {
		input.CacheControl = aws.String(s.cacheControl)
	}

	_, err := s.uploader.UploadWithContext(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to upload to R2: %w", err)
	}

	return nil
}

// Get retrieves a blob from R2
func (s *CloudflareR2Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	result, err := s.client.GetObjectWithContext(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get from R2: %w", err)
	}

	return result.Body, nil
}

// Delete removes a blob from R2
func (s *CloudflareR2Storage) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	_, err := s.client.DeleteObjectWithContext(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to delete from R2: %w", err)
	}

	return nil
}

// DeleteAll removes several blobs from R2
func (s *CloudflareR2Storage) DeleteAll(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objects := make([]*s3.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
	}

	input := &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &s3.Delete{Objects: objects},
	}

	_, err := s.client.DeleteObjectsWithContext(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to delete from R2: %w", err)
	}

	return nil
}

// Exists checks if a blob exists in R2
func (s *CloudflareR2Storage) Exists(ctx context.Context, key string) (bool, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	_, err := s.client.HeadObjectWithContext(ctx, input)
	if err != nil {
		return false, nil
	}

	return true, nil
}

// GetURL returns a public URL for the blob
func (s *CloudflareR2Storage) GetURL(ctx context.Context, key string) (string, error) {
	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

// KeyFromURL recovers the storage key by trimming the public base URL.
func (s *CloudflareR2Storage) KeyFromURL(rawURL string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(rawURL, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}
