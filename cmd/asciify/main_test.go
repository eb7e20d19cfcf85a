package main

import (
	"bytes"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"asciify/internal/adapters/storage/memory"
	"asciify/internal/ascii"
	"asciify/internal/config"
	"asciify/internal/pkg/errors"
	"asciify/internal/storage"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.png")
	if err := imaging.Save(imaging.New(w, h, color.Black), path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func execute(t *testing.T, cfg config.Config, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(cfg)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func baseConfig() config.Config {
	return config.Config{ASCII: ascii.DefaultOptions(), NamePrefix: "asciify-"}
}

func TestConvertPrintsRendering(t *testing.T) {
	out, _, err := execute(t, baseConfig(), "convert", writePNG(t, 200, 100))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 30 || len(lines[0]) != 60 {
		t.Errorf("expected 60x30, got %dx%d", len(lines[0]), len(lines))
	}
}

func TestConvertFlags(t *testing.T) {
	out, _, err := execute(t, baseConfig(), "convert", "--fit", "width", "--width", "20", writePNG(t, 200, 100))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 10 || len(lines[0]) != 20 {
		t.Errorf("expected 20x10, got %dx%d", len(lines[0]), len(lines))
	}

	_, _, err = execute(t, baseConfig(), "convert", "--fit", "cover", writePNG(t, 2, 2))
	if !errors.IsCode(err, errors.CodeValidation) {
		t.Errorf("expected validation error for unknown fit, got %v", err)
	}
}

func TestConvertUpload(t *testing.T) {
	store := memory.New()
	cfg := baseConfig()
	cfg.Storage = storage.Config{Provider: "memory", Container: "emerge", Memory: store}

	_, stderr, err := execute(t, cfg, "convert", "--upload", writePNG(t, 8, 8))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if store.Puts() != 1 || len(store.Bucket("emerge").List("asciify-")) != 1 {
		t.Errorf("expected one upload, have %v", store.Keys())
	}
	if !strings.Contains(stderr, "uploaded asciify-") {
		t.Errorf("expected upload ack on stderr, got %q", stderr)
	}
}

func TestConvertDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := execute(t, baseConfig(), "convert", path)
	if !errors.IsDecode(err) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if out != "" {
		t.Errorf("nothing should be printed, got %q", out)
	}
}

func TestEnqueueRequiresRedis(t *testing.T) {
	_, _, err := execute(t, baseConfig(), "enqueue", "cat.png")
	if err == nil || !strings.Contains(err.Error(), "REDIS_ADDR") {
		t.Errorf("expected REDIS_ADDR error, got %v", err)
	}
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
		code   string
	}{
		{"ok", "state=s1&code=abc", http.StatusOK, "abc"},
		{"bad state", "state=other&code=abc", http.StatusBadRequest, ""},
		{"denied", "state=s1&error=access_denied", http.StatusBadRequest, ""},
		{"no code", "state=s1", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codeCh := make(chan string, 1)
			errCh := make(chan error, 1)
			rec := httptest.NewRecorder()
			callbackHandler("s1", codeCh, errCh)(rec, httptest.NewRequest("GET", "/callback?"+tt.query, nil))

			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
			select {
			case got := <-codeCh:
				if got != tt.code {
					t.Errorf("expected code %q, got %q", tt.code, got)
				}
			case <-errCh:
				if tt.code != "" {
					t.Error("unexpected error")
				}
			}
		})
	}
}
