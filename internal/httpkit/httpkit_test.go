package httpkit

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 50},
		{"limit=10", 10},
		{"limit=0", 50},
		{"limit=-1", 50},
		{"limit=abc", 50},
		{"limit=1000", 50},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/invocations?"+tt.query, nil)
		if got := QueryInt(r, "limit", 50, 200); got != tt.want {
			t.Errorf("%q: expected %d, got %d", tt.query, tt.want, got)
		}
	}
}

func TestDecodeJSONAcceptsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"Data":{},"Extra":1}`))
	var v struct{ Data map[string]any }
	if err := DecodeJSON(r, &v); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, 201, map[string]string{"status": "ok"})
	if rec.Code != 201 || rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("unexpected response %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
}

func TestIsUndefinedTable(t *testing.T) {
	err := fmt.Errorf("list: %w", &pgconn.PgError{Code: "42P01"})
	if !IsUndefinedTable(err) {
		t.Error("expected undefined table")
	}
	if IsUndefinedTable(errors.New("other")) {
		t.Error("plain errors are not pg errors")
	}
}
