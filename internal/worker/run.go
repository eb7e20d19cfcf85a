package worker

import (
	"context"
	"io"
	"time"

	"asciify/internal/invocation"
	"asciify/internal/pkg/errors"
	"asciify/internal/pkg/logger"
	"asciify/internal/util"
)

const (
	DefaultFunction     = "asciifyUpload"
	DefaultMaxBlobBytes = 32 << 20
)

// Run pops object keys until ctx is canceled and runs one invocation per key.
func Run(ctx context.Context, d Deps) error {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	log = log.WithComponent("worker")

	if d.Function == "" {
		d.Function = DefaultFunction
	}
	if d.MaxBlobBytes <= 0 {
		d.MaxBlobBytes = DefaultMaxBlobBytes
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("worker context canceled, stopping")
			return ctx.Err()
		default:
		}

		key, err := d.Queue.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("worker stopping due to context cancellation")
				return ctx.Err()
			}

			log.Warn("queue pop error, retrying", "error", err.Error())
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		if key == "" {
			continue
		}

		Process(ctx, d, log, key)
	}
}

// Process runs one invocation for the blob at key. The invocation is
// completed exactly once even when the source cannot be read.
func Process(ctx context.Context, d Deps, log *logger.Logger, key string) *invocation.Invocation {
	invID := util.NewID("inv")
	invCtx := logger.ContextWithInvocationID(ctx, invID)
	inv := invocation.New(invID, d.Function, log)

	log.WithInvocationID(invID).Info("processing blob", "key", key, "source", d.Source.Container())

	blob, err := fetch(invCtx, d, key)
	if err != nil {
		inv.Done(err)
		return inv
	}

	_, _ = d.Pipeline.Run(invCtx, inv, key, blob)
	return inv
}

func fetch(ctx context.Context, d Deps, key string) ([]byte, error) {
	rc, _, size, err := d.Source.GetObject(ctx, key)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeNotFound, "worker.fetch", "cannot read source blob").
			WithField("key", key)
	}
	defer rc.Close()

	if size > d.MaxBlobBytes {
		return nil, errors.Newf(errors.CodeValidation, "source blob is %d bytes, limit %d", size, d.MaxBlobBytes).
			WithField("key", key)
	}

	blob, err := io.ReadAll(io.LimitReader(rc, d.MaxBlobBytes+1))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "worker.fetch", "source read failed").
			WithField("key", key)
	}
	if int64(len(blob)) > d.MaxBlobBytes {
		return nil, errors.Newf(errors.CodeValidation, "source blob exceeds %d bytes", d.MaxBlobBytes).
			WithField("key", key)
	}
	return blob, nil
}
