package shutdown

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"asciify/internal/pkg/logger"
)

func newTestLogger() *logger.Logger {
	var buf bytes.Buffer
	return logger.New(logger.Config{
		Level:  "debug",
		Format: "json",
		Output: &buf,
	})
}

func TestNewManager(t *testing.T) {
	mgr := NewManager(newTestLogger(), 0)
	if mgr.timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", mgr.timeout)
	}
}

func TestRegister(t *testing.T) {
	mgr := NewManager(newTestLogger(), 5*time.Second)

	mgr.Register("redis", func(ctx context.Context) error {
		return nil
	})

	if len(mgr.handlers) != 1 {
		t.Errorf("expected 1 handler, got %d", len(mgr.handlers))
	}
	if mgr.handlers[0].Name != "redis" {
		t.Errorf("expected handler name 'redis', got %s", mgr.handlers[0].Name)
	}
}

func TestRegisterSimple(t *testing.T) {
	mgr := NewManager(newTestLogger(), 5*time.Second)

	var called bool
	mgr.RegisterSimple("simple", func() {
		called = true
	})

	mgr.Shutdown()

	if !called {
		t.Error("expected simple handler to be called")
	}
}

func TestShutdownRunsLIFO(t *testing.T) {
	mgr := NewManager(newTestLogger(), 5*time.Second)

	var order []string
	for _, name := range []string{"postgres", "redis", "http-server"} {
		mgr.Register(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	mgr.Shutdown()

	want := []string{"http-server", "redis", "postgres"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestShutdownHandlesErrors(t *testing.T) {
	mgr := NewManager(newTestLogger(), 5*time.Second)

	var after bool
	mgr.Register("after", func(ctx context.Context) error {
		after = true
		return nil
	})
	mgr.Register("failing", func(ctx context.Context) error {
		return context.DeadlineExceeded
	})

	mgr.Shutdown()

	if !after {
		t.Error("a failing handler must not stop the remaining ones")
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	mgr := NewManager(newTestLogger(), 5*time.Second)

	var calls atomic.Int32
	mgr.RegisterSimple("once", func() { calls.Add(1) })

	mgr.Shutdown()
	mgr.Shutdown()

	if calls.Load() != 1 {
		t.Errorf("expected one cleanup run, got %d", calls.Load())
	}
}

func TestDone(t *testing.T) {
	mgr := NewManager(newTestLogger(), 5*time.Second)

	select {
	case <-mgr.Done():
		t.Error("expected done channel to not be closed initially")
	default:
	}

	mgr.Shutdown()

	select {
	case <-mgr.Done():
	case <-time.After(time.Second):
		t.Error("expected done channel to be closed after shutdown")
	}
}

func TestContextCanceledBeforeHandlers(t *testing.T) {
	mgr := NewManager(newTestLogger(), 5*time.Second)
	ctx := mgr.Context()

	var sawCanceled bool
	mgr.Register("worker", func(context.Context) error {
		sawCanceled = ctx.Err() != nil
		return nil
	})

	select {
	case <-ctx.Done():
		t.Fatal("expected context to not be canceled initially")
	default:
	}

	mgr.Shutdown()

	if !sawCanceled {
		t.Error("expected context to be canceled before handlers run")
	}
}

func TestWaitWithContext(t *testing.T) {
	mgr := NewManager(newTestLogger(), time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mgr.WaitWithContext(ctx)

	select {
	case <-mgr.Done():
	default:
		t.Error("expected shutdown to complete after context cancel")
	}
}

func TestShutdownTimeout(t *testing.T) {
	mgr := NewManager(newTestLogger(), 100*time.Millisecond)

	mgr.Register("slow", func(ctx context.Context) error {
		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
		}
		return nil
	})

	start := time.Now()
	mgr.Shutdown()

	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("shutdown took too long: %v", elapsed)
	}
}
