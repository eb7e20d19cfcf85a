package worker

import (
	"context"

	"asciify/internal/pipeline"
	"asciify/internal/pkg/logger"
	"asciify/internal/ports"
)

// Queue yields object keys of uploaded source blobs.
type Queue interface {
	Pop(ctx context.Context) (string, error)
}

type Deps struct {
	Queue Queue
	// Source is the container the keys refer to.
	Source   ports.StorageProvider
	Pipeline *pipeline.Processor
	Function string
	// MaxBlobBytes rejects larger sources before decoding. Zero means DefaultMaxBlobBytes.
	MaxBlobBytes int64
	Log          *logger.Logger
}
