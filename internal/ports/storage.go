package ports

import (
	"context"
	"io"
)

type PutObjectInput struct {
	ObjectKey   string
	ContentType string
	Reader      io.Reader
	// Size is the exact number of bytes Reader yields. Providers reject a
	// mismatch instead of uploading a truncated or padded object.
	Size int64
}

type PutObjectOutput struct {
	// Provider-side identifier. Equal to the input key except for gdrive,
	// where it is the Drive fileId.
	ObjectKey string
	Size      int64
	// ETag and RequestID are empty when the backend does not report them.
	ETag      string
	RequestID string
}

// StorageProvider is one container/bucket of a blob backend
// (azblob, s3, gcs, gdrive, localfs, memory).
type StorageProvider interface {
	Provider() string
	Container() string

	PutObject(ctx context.Context, in PutObjectInput) (PutObjectOutput, error)
	GetObject(ctx context.Context, objectKey string) (rc io.ReadCloser, contentType string, size int64, err error)
	DeleteObject(ctx context.Context, objectKey string) error
}
