package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage uploads the envelope to a Cloud Storage object.
type GCSStorage struct {
	client *storage.Client
	bucket string
	object string
}

// NewGCS creates a GCSStorage for gs://bucket/object. Credentials come from
// the environment (Application Default Credentials) unless opts say otherwise.
func NewGCS(ctx context.Context, bucket, object string, opts ...option.ClientOption) (*GCSStorage, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &GCSStorage{
		client: client,
		bucket: bucket,
		object: object,
	}, nil
}

// Location returns the gs:// URL of the object
func (s *GCSStorage) Location() string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, s.object)
}

// Write replaces the object's contents with data
func (s *GCSStorage) Write(ctx context.Context, data []byte) error {
	writer := s.client.Bucket(s.bucket).Object(s.object).NewWriter(ctx)
	writer.ContentType = "application/json"
	writer.CacheControl = "no-cache, max-age=0"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("uploading %s: %w", s.Location(), err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("uploading %s: %w", s.Location(), err)
	}
	return nil
}

// Close closes the GCS client.
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
