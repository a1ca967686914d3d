package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// UploadObject uploads bytes from r into bucket/objectPath with the provided contentType
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath, contentType string, r io.Reader) error {
	wc := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}

// UploadJSON marshals v with indentation and uploads it as application/json.
func UploadJSON(ctx context.Context, client *storage.Client, bucket, objectPath string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return UploadObject(ctx, client, bucket, objectPath, "application/json", bytes.NewReader(b))
}

// SignedGetURL returns a V4 signed URL granting GET on one object until expires.
// With empty opts signing falls back to the client's credentials.
func SignedGetURL(client *storage.Client, bucket, objectPath string, expires time.Time, opts *storage.SignedURLOptions) (string, error) {
	if opts == nil {
		opts = &storage.SignedURLOptions{}
	}
	o := *opts
	o.Method = http.MethodGet
	o.Scheme = storage.SigningSchemeV4
	o.Expires = expires
	return client.Bucket(bucket).SignedURL(objectPath, &o)
}
