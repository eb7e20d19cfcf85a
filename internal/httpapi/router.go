package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"asciify/internal/httpapi/handlers"
	"asciify/internal/metrics"
	"asciify/internal/pkg/logger"
	"asciify/internal/pkg/middleware"
)

// DefaultTimeout bounds one invocation; host.json's functionTimeout is the
// outer limit.
const DefaultTimeout = 5 * time.Minute

type Deps struct {
	Handlers handlers.Deps
	Metrics  *metrics.Metrics
	Timeout  time.Duration
	Log      *logger.Logger
}

// NewRouter serves the custom handler protocol: one POST route per function
// plus health, metrics and the invocation ledger.
func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	timeout := d.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if d.Handlers.Log == nil {
		d.Handlers.Log = log
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Recovery(log))

	h := handlers.New(d.Handlers)

	// ---- HEALTH ----
	r.Get("/health", h.Health)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	// ---- INVOCATIONS ----
	r.Get("/invocations", middleware.WrapHandler(log, h.ListInvocations))
	r.Get("/invocations/{invocationId}", middleware.WrapHandler(log, h.GetInvocation))

	// ---- FUNCTIONS ----
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))
		for _, name := range h.Functions() {
			r.Post("/"+name, h.Invoke(name))
		}
	})

	return r
}
