// Package gcs implements ports.StorageProvider over a Google Cloud Storage
// bucket using application default credentials.
package gcs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"asciify/internal/pkg/errors"
	"asciify/internal/ports"
)

type Client struct {
	client *storage.Client
	bucket string
}

// New builds a storage client for bucket. Callers own Close.
func New(ctx context.Context, bucket string, opts ...option.ClientOption) (*Client, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.Configuration("STORAGE_CONTAINER", "gcs bucket required")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeConfiguration, "gcs.client", "cannot build storage client")
	}
	return &Client{client: client, bucket: bucket}, nil
}

func (c *Client) Provider() string  { return "gcs" }
func (c *Client) Container() string { return c.bucket }

func (c *Client) Close() error { return c.client.Close() }

func (c *Client) PutObject(ctx context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	data, err := ports.ReadBody(in)
	if err != nil {
		return ports.PutObjectOutput{}, err
	}

	w := c.client.Bucket(c.bucket).Object(in.ObjectKey).NewWriter(ctx)
	w.ContentType = in.ContentType
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return ports.PutObjectOutput{}, fmt.Errorf("gcs upload failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return ports.PutObjectOutput{}, fmt.Errorf("gcs upload failed: %w", err)
	}

	out := ports.PutObjectOutput{ObjectKey: in.ObjectKey, Size: int64(len(data))}
	if attrs := w.Attrs(); attrs != nil {
		out.ETag = attrs.Etag
		out.Size = attrs.Size
	}
	return out, nil
}

func (c *Client) GetObject(ctx context.Context, objectKey string) (rc io.ReadCloser, contentType string, size int64, err error) {
	r, err := c.client.Bucket(c.bucket).Object(objectKey).NewReader(ctx)
	if err != nil {
		return nil, "", 0, err
	}
	return r, r.Attrs.ContentType, r.Attrs.Size, nil
}

func (c *Client) DeleteObject(ctx context.Context, objectKey string) error {
	return c.client.Bucket(c.bucket).Object(objectKey).Delete(ctx)
}
