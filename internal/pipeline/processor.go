// Package pipeline runs one function invocation: convert the blob, log the
// rendering and, when a sink is configured, upload it.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"asciify/internal/ascii"
	"asciify/internal/invocation"
	"asciify/internal/metrics"
	"asciify/internal/models"
	"asciify/internal/pkg/errors"
	"asciify/internal/pkg/logger"
	"asciify/internal/ports"
)

const ContentType = "text/plain; charset=utf-8"

type Converter interface {
	Convert(ctx context.Context, blob []byte) (ascii.Rendering, error)
}

// SinkFactory builds a fresh storage client for one invocation.
type SinkFactory func(ctx context.Context) (ports.StorageProvider, error)

// Recorder observes invocations. Its failures are logged, never returned.
type Recorder interface {
	Start(ctx context.Context, inv models.Invocation) error
	Finish(ctx context.Context, inv models.Invocation) error
}

type Deps struct {
	Converter Converter
	// Sink is nil for the log-only function.
	Sink     SinkFactory
	Namer    Namer
	Recorder Recorder
	Metrics  *metrics.Metrics
	Log      *logger.Logger
}

type Processor struct {
	converter Converter
	sink      SinkFactory
	namer     Namer
	recorder  Recorder
	metrics   *metrics.Metrics
	log       *logger.Logger
}

// Result describes a successful run. Upload fields are empty for the
// log-only function.
type Result struct {
	Rendering ascii.Rendering
	BlobName  string
	Provider  string
	Container string
	Size      int64
	ETag      string
	RequestID string
}

func New(d Deps) *Processor {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	return &Processor{
		converter: d.Converter,
		sink:      d.Sink,
		namer:     d.Namer,
		recorder:  d.Recorder,
		metrics:   d.Metrics,
		log:       log.WithComponent("pipeline"),
	}
}

// Uploads reports whether Run persists the rendering.
func (p *Processor) Uploads() bool { return p.sink != nil }

// Run executes the invocation and completes inv exactly once, whatever the
// outcome. The returned error is the one passed to inv.Done.
func (p *Processor) Run(ctx context.Context, inv *invocation.Invocation, trigger string, blob []byte) (res Result, err error) {
	log := p.log.FromContext(ctx).WithInvocationID(inv.ID).WithFunction(inv.Function)

	p.recordStart(ctx, log, inv, trigger)

	defer func() {
		if r := recover(); r != nil {
			log.Error("invocation panicked", "panic", fmt.Sprint(r))
			res = Result{}
			perr := errors.Newf(errors.CodeInternal, "panic: %v", r)
			perr.Op = "pipeline.run"
			err = perr
		}
		p.recordFinish(ctx, log, inv, res, err)
		inv.Done(err)
	}()

	log.Debug("converting blob", "bytes", len(blob), "trigger", trigger)
	rendering, err := p.converter.Convert(ctx, blob)
	if err != nil {
		return Result{}, errors.Wrap(err, "pipeline.convert", "conversion failed")
	}
	inv.Log(rendering.String())
	res.Rendering = rendering

	if p.sink == nil {
		return res, nil
	}

	uploaded, err := p.upload(ctx, log, inv, rendering)
	if err != nil {
		return Result{}, err
	}
	uploaded.Rendering = rendering
	return uploaded, nil
}

func (p *Processor) upload(ctx context.Context, log *logger.Logger, inv *invocation.Invocation, rendering ascii.Rendering) (Result, error) {
	sp, err := p.sink(ctx)
	if err != nil {
		return Result{}, wrapAs(err, errors.CodeConfiguration, "pipeline.client", "storage client setup failed")
	}
	if c, ok := sp.(io.Closer); ok {
		defer c.Close()
	}

	name := p.namer.Name()
	size := int64(rendering.Len())
	log.Debug("uploading rendering",
		"provider", sp.Provider(),
		"container", sp.Container(),
		"blob", name,
		"size", size,
	)

	out, err := sp.PutObject(ctx, ports.PutObjectInput{
		ObjectKey:   name,
		ContentType: ContentType,
		Reader:      bytes.NewReader(rendering.Bytes()),
		Size:        size,
	})
	if err != nil {
		return Result{}, wrapAs(err, errors.CodeUpload, "pipeline.upload", "upload failed").
			WithField("blob", name).
			WithField("container", sp.Container())
	}

	inv.Log(ackMessage(sp, name, out))
	p.metrics.ObserveUpload(sp.Provider(), out.Size)

	return Result{
		BlobName:  name,
		Provider:  sp.Provider(),
		Container: sp.Container(),
		Size:      out.Size,
		ETag:      out.ETag,
		RequestID: out.RequestID,
	}, nil
}

func ackMessage(sp ports.StorageProvider, name string, out ports.PutObjectOutput) string {
	msg := fmt.Sprintf("uploaded %s to %s/%s (%d bytes)", name, sp.Provider(), sp.Container(), out.Size)
	if out.ObjectKey != "" && out.ObjectKey != name {
		msg += " id=" + out.ObjectKey
	}
	if out.ETag != "" {
		msg += " etag=" + out.ETag
	}
	if out.RequestID != "" {
		msg += " request_id=" + out.RequestID
	}
	return msg
}

func (p *Processor) recordStart(ctx context.Context, log *logger.Logger, inv *invocation.Invocation, trigger string) {
	if p.recorder == nil {
		return
	}
	err := p.recorder.Start(ctx, models.Invocation{
		ID:          inv.ID,
		Function:    inv.Function,
		Status:      models.StatusRunning,
		TriggerName: trigger,
		StartedAt:   inv.Started,
	})
	if err != nil {
		log.Warn("ledger start failed", "error", err.Error())
	}
}

func (p *Processor) recordFinish(ctx context.Context, log *logger.Logger, inv *invocation.Invocation, res Result, cause error) {
	p.metrics.ObserveInvocation(inv.Function, cause, time.Since(inv.Started))

	if p.recorder == nil {
		return
	}
	row := models.Invocation{
		ID:        inv.ID,
		Function:  inv.Function,
		Status:    models.StatusDone,
		Provider:  res.Provider,
		Container: res.Container,
		BlobName:  res.BlobName,
		Size:      res.Size,
	}
	if cause != nil {
		row.Status = models.StatusFailed
		row.ErrorCode = string(errors.GetCode(cause))
		row.ErrorText = cause.Error()
	}
	if err := p.recorder.Finish(context.WithoutCancel(ctx), row); err != nil {
		log.Warn("ledger finish failed", "error", err.Error())
	}
}

// wrapAs keeps an existing code and assigns code to uncoded errors.
func wrapAs(err error, code errors.Code, op, msg string) *errors.Error {
	if errors.GetCode(err) == errors.CodeInternal {
		return errors.WrapWithCode(err, code, op, msg)
	}
	return errors.Wrap(err, op, msg)
}
