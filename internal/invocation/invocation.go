// Package invocation models one run of a function: its log channel and its
// completion signal.
package invocation

import (
	"sync"
	"sync/atomic"
	"time"

	"asciify/internal/pkg/logger"
)

// Invocation is created by the caller (HTTP handler, worker, CLI) and handed
// to the pipeline, which completes it.
type Invocation struct {
	ID       string
	Function string
	Started  time.Time

	log *logger.Logger

	mu   sync.Mutex
	logs []string

	done atomic.Bool
	err  error
	fin  chan struct{}
}

func New(id, function string, log *logger.Logger) *Invocation {
	if log == nil {
		log = logger.Discard()
	}
	return &Invocation{
		ID:       id,
		Function: function,
		Started:  time.Now(),
		log:      log.WithInvocationID(id).WithFunction(function),
		fin:      make(chan struct{}),
	}
}

// Log appends msg to the invocation's log stream and mirrors it to the
// structured logger. It never fails.
func (i *Invocation) Log(msg string) {
	i.mu.Lock()
	i.logs = append(i.logs, msg)
	i.mu.Unlock()

	i.log.Info("invocation log", "message", msg)
}

// Logs returns a copy of the messages logged so far.
func (i *Invocation) Logs() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]string, len(i.logs))
	copy(out, i.logs)
	return out
}

// Done signals completion. Only the first call takes effect; it reports
// whether this call was that one.
func (i *Invocation) Done(err error) bool {
	if !i.done.CompareAndSwap(false, true) {
		i.log.Warn("completion already signalled, ignoring")
		return false
	}
	i.err = err
	close(i.fin)

	if err != nil {
		i.log.Error("invocation failed",
			"error", err.Error(),
			"duration_ms", time.Since(i.Started).Milliseconds(),
		)
	} else {
		i.log.Info("invocation completed",
			"duration_ms", time.Since(i.Started).Milliseconds(),
		)
	}
	return true
}

// Completed returns a channel closed once Done has taken effect.
func (i *Invocation) Completed() <-chan struct{} { return i.fin }

// Err returns the error passed to the effective Done call. It is only
// meaningful after Completed is closed.
func (i *Invocation) Err() error {
	<-i.fin
	return i.err
}

// IsDone reports whether completion has been signalled.
func (i *Invocation) IsDone() bool { return i.done.Load() }
