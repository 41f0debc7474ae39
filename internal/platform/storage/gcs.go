// Package storage wraps the object store holding inventory item photos.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/luvora/luvora/internal/business"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// PhotoStore stores item photos in a Google Cloud Storage bucket and
// hands back publicly readable URLs.
type PhotoStore struct {
	client *gcs.Client
	bucket string
}

// NewPhotoStore connects to the bucket. Credentials come from ADC, or
// from explicit JSON when provided.
func NewPhotoStore(ctx context.Context, bucket, credentialsJSON string) (*PhotoStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage: bucket name is required")
	}
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: new client: %w", err)
	}
	return &PhotoStore{client: client, bucket: bucket}, nil
}

// Close releases the underlying client.
func (s *PhotoStore) Close() error { return s.client.Close() }

// Upload stores image bytes under a generated unique object name and
// returns the public URL. Non-image payloads are rejected.
func (s *PhotoStore) Upload(ctx context.Context, data []byte, suggestedName string) (string, error) {
	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("%w: unsupported content type %s", business.ErrStorageRejected, contentType)
	}

	objectName := generateObjectName(suggestedName)
	wc := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("%w: write object: %v", business.ErrStorageRejected, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("%w: close object: %v", business.ErrStorageRejected, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectName), nil
}

// Delete removes the object a public URL points at.
func (s *PhotoStore) Delete(ctx context.Context, photoURL string) error {
	objectName := ObjectName(photoURL)
	if objectName == "" {
		return fmt.Errorf("%w: no object name in url %q", business.ErrStorageRejected, photoURL)
	}
	if err := s.client.Bucket(s.bucket).Object(objectName).Delete(ctx); err != nil {
		return fmt.Errorf("%w: delete object %s: %v", business.ErrStorageRejected, objectName, err)
	}
	return nil
}

// ObjectName extracts the stored object name from a public URL.
func ObjectName(photoURL string) string {
	idx := strings.LastIndex(photoURL, "/")
	if idx < 0 || idx == len(photoURL)-1 {
		return ""
	}
	return photoURL[idx+1:]
}

// generateObjectName builds a unique name: timestamp, random suffix, and
// the original extension when one is present.
func generateObjectName(suggestedName string) string {
	ext := strings.ToLower(path.Ext(suggestedName))
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}
