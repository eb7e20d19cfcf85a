// Package app wires configuration into the two function pipelines shared by
// the function host, the worker and the CLI.
package app

import (
	"context"

	"asciify/internal/ascii"
	"asciify/internal/config"
	"asciify/internal/metrics"
	"asciify/internal/pipeline"
	"asciify/internal/pkg/logger"
	"asciify/internal/ports"
	"asciify/internal/storage"
)

const (
	FunctionPrintMessage  = "printMessage"
	FunctionAsciifyUpload = "asciifyUpload"
)

type Options struct {
	Recorder pipeline.Recorder
	Metrics  *metrics.Metrics
	Log      *logger.Logger
}

// Functions builds both pipelines from cfg. Storage clients are created per
// invocation by the upload pipeline.
func Functions(cfg config.Config, opts Options) (map[string]*pipeline.Processor, error) {
	conv, err := ascii.New(cfg.ASCII)
	if err != nil {
		return nil, err
	}

	base := pipeline.Deps{
		Converter: conv,
		Namer:     pipeline.Namer{Prefix: cfg.NamePrefix},
		Recorder:  opts.Recorder,
		Metrics:   opts.Metrics,
		Log:       opts.Log,
	}
	upload := base
	upload.Sink = Sink(cfg.Storage)

	return map[string]*pipeline.Processor{
		FunctionPrintMessage:  pipeline.New(base),
		FunctionAsciifyUpload: pipeline.New(upload),
	}, nil
}

// Sink returns a factory building a fresh client for the output container.
func Sink(cfg storage.Config) pipeline.SinkFactory {
	return func(ctx context.Context) (ports.StorageProvider, error) {
		return storage.NewProvider(ctx, cfg)
	}
}
