package ports

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrMissingKey   = errors.New("object_key is required")
	ErrSizeMismatch = errors.New("body length does not match declared size")
)

// ReadBody drains in.Reader and checks it yields exactly in.Size bytes.
func ReadBody(in PutObjectInput) ([]byte, error) {
	if strings.TrimSpace(in.ObjectKey) == "" {
		return nil, ErrMissingKey
	}
	if in.Reader == nil {
		return nil, fmt.Errorf("%w: nil reader", ErrSizeMismatch)
	}
	data, err := io.ReadAll(in.Reader)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != in.Size {
		return nil, fmt.Errorf("%w: declared %d, read %d", ErrSizeMismatch, in.Size, len(data))
	}
	return data, nil
}
