// Package metrics exposes invocation counters for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"asciify/internal/pkg/errors"
)

const namespace = "asciify"

const StatusSuccess = "success"

type Metrics struct {
	reg *prometheus.Registry

	invocations   *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	uploadedBytes *prometheus.CounterVec
}

// New registers the asciify collectors plus the Go and process collectors on
// a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Completed function invocations by function and status.",
		}, []string{"function", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invocation_duration_seconds",
			Help:      "Wall time from receipt to completion of an invocation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"function"}),
		uploadedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Rendering bytes written to storage by provider.",
		}, []string{"provider"}),
	}

	m.reg.MustRegister(
		m.invocations,
		m.duration,
		m.uploadedBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveInvocation records one completed invocation. The status label is
// "success" or the error code (DECODE_ERROR, UPLOAD_ERROR, ...).
func (m *Metrics) ObserveInvocation(function string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = string(errors.GetCode(err))
	}
	m.invocations.WithLabelValues(function, status).Inc()
	m.duration.WithLabelValues(function).Observe(d.Seconds())
}

func (m *Metrics) ObserveUpload(provider string, n int64) {
	if m == nil {
		return
	}
	m.uploadedBytes.WithLabelValues(provider).Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
