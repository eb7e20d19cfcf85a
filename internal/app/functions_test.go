package app

import (
	"testing"

	"asciify/internal/ascii"
	"asciify/internal/config"
	"asciify/internal/pkg/errors"
	"asciify/internal/pkg/logger"
)

func TestFunctions(t *testing.T) {
	cfg := config.Config{ASCII: ascii.DefaultOptions(), NamePrefix: "asciify-"}

	fns, err := Functions(cfg, Options{Log: logger.Discard()})
	if err != nil {
		t.Fatalf("Functions: %v", err)
	}
	if len(fns) != 2 {
		t.Fatalf("expected two functions, got %d", len(fns))
	}
	if fns[FunctionPrintMessage].Uploads() {
		t.Error("printMessage must be log-only")
	}
	if !fns[FunctionAsciifyUpload].Uploads() {
		t.Error("asciifyUpload must upload")
	}
}

func TestFunctionsRejectInvalidOptions(t *testing.T) {
	cfg := config.Config{ASCII: ascii.Options{Fit: ascii.FitBox}}

	_, err := Functions(cfg, Options{Log: logger.Discard()})
	if !errors.IsCode(err, errors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
