package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"asciify/internal/pkg/errors"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestObserveInvocation(t *testing.T) {
	m := New()
	m.ObserveInvocation("printMessage", nil, 20*time.Millisecond)
	m.ObserveInvocation("asciifyUpload", errors.New(errors.CodeUpload, "rejected"), time.Second)
	m.ObserveUpload("azblob", 1830)

	out := scrape(t, m)
	for _, want := range []string{
		`asciify_invocations_total{function="printMessage",status="success"} 1`,
		`asciify_invocations_total{function="asciifyUpload",status="UPLOAD_ERROR"} 1`,
		`asciify_invocation_duration_seconds_count{function="printMessage"} 1`,
		`asciify_uploaded_bytes_total{provider="azblob"} 1830`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in scrape", want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveInvocation("printMessage", nil, time.Millisecond)
	m.ObserveUpload("memory", 1)
}
