package storage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/adhd-helper/pkg/helpers"
)

// ExportStore writes user data exports to a private GCS bucket and hands out
// short-lived signed links to them.
type ExportStore struct {
	client *storage.Client
	bucket string
	ttl    time.Duration
	// sign overrides the signer detected from the client's credentials.
	sign *storage.SignedURLOptions
	now  func() time.Time
}

func NewExportStore(client *storage.Client, bucket string, ttl time.Duration) *ExportStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ExportStore{client: client, bucket: bucket, ttl: ttl, now: time.Now}
}

// UploadJSON stores v at objectPath and returns a signed GET URL valid for the store's TTL.
func (s *ExportStore) UploadJSON(ctx context.Context, objectPath string, v any) (string, error) {
	if err := helpers.UploadJSON(ctx, s.client, s.bucket, objectPath, v); err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}
	return s.signedURL(objectPath)
}

func (s *ExportStore) signedURL(objectPath string) (string, error) {
	u, err := helpers.SignedGetURL(s.client, s.bucket, objectPath, s.now().Add(s.ttl), s.sign)
	if err != nil {
		return "", fmt.Errorf("sign export url: %w", err)
	}
	return u, nil
}
