package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeDecode, "image: unknown format")

	if err.Code != CodeDecode {
		t.Errorf("expected code=%s, got %s", CodeDecode, err.Code)
	}
	if err.Message != "image: unknown format" {
		t.Errorf("expected message='image: unknown format', got %s", err.Message)
	}
	if len(err.Stack) == 0 {
		t.Error("expected stack trace to be captured")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CodeNotFound, "invocation %s not found", "inv_1")

	if err.Code != CodeNotFound {
		t.Errorf("expected code=%s, got %s", CodeNotFound, err.Code)
	}
	if err.Message != "invocation inv_1 not found" {
		t.Errorf("expected formatted message, got %s", err.Message)
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "simple error",
			err:      New(CodeDecode, "bad image"),
			contains: []string{"DECODE_ERROR", "bad image"},
		},
		{
			name: "error with op",
			err: &Error{
				Code:    CodeUpload,
				Message: "put failed",
				Op:      "pipeline.upload",
			},
			contains: []string{"pipeline.upload", "UPLOAD_ERROR", "put failed"},
		},
		{
			name: "error with underlying",
			err: &Error{
				Code:    CodeInternal,
				Message: "wrapper",
				Err:     fmt.Errorf("underlying error"),
			},
			contains: []string{"wrapper", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			str := tt.err.Error()
			for _, c := range tt.contains {
				if !strings.Contains(str, c) {
					t.Errorf("expected error string to contain %q, got: %s", c, str)
				}
			}
		})
	}
}

func TestWrap(t *testing.T) {
	original := fmt.Errorf("connection reset")
	wrapped := Wrap(original, "pipeline.upload", "upload failed")

	if wrapped == nil {
		t.Fatal("expected wrapped error to be non-nil")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code=%s, got %s", CodeInternal, wrapped.Code)
	}
	if wrapped.Op != "pipeline.upload" {
		t.Errorf("expected op='pipeline.upload', got %s", wrapped.Op)
	}
	if errors.Unwrap(wrapped) != original {
		t.Error("Unwrap should return original error")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "op", "message") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if WrapWithCode(nil, CodeUpload, "op", "message") != nil {
		t.Error("WrapWithCode(nil) should return nil")
	}
}

func TestWrapPreservesCode(t *testing.T) {
	original := Configuration("ACCOUNT_KEY", "account key is required")
	wrapped := Wrap(original, "pipeline.client", "storage client setup failed")

	if wrapped.Code != CodeConfiguration {
		t.Errorf("expected code to be preserved as %s, got %s", CodeConfiguration, wrapped.Code)
	}
	if wrapped.Fields["setting"] != "ACCOUNT_KEY" {
		t.Errorf("expected fields to be preserved, got %v", wrapped.Fields)
	}
}

func TestWrapWithCode(t *testing.T) {
	wrapped := WrapWithCode(fmt.Errorf("403"), CodeUpload, "azblob.put", "upload rejected")

	if wrapped.Code != CodeUpload {
		t.Errorf("expected code=%s, got %s", CodeUpload, wrapped.Code)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeValidation, 400},
		{CodeBadRequest, 400},
		{CodeNotFound, 404},
		{CodeDecode, 422},
		{CodeConfiguration, 500},
		{CodeInternal, 500},
		{CodeUpload, 502},
		{CodeUnavailable, 503},
		{CodeTimeout, 504},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "test")
			if err.HTTPStatus() != tt.status {
				t.Errorf("expected status=%d, got %d", tt.status, err.HTTPStatus())
			}
		})
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		err := NotFound("invocation", "inv_1")
		if err.Code != CodeNotFound {
			t.Errorf("expected code=%s, got %s", CodeNotFound, err.Code)
		}
		if err.Fields["id"] != "inv_1" {
			t.Errorf("expected id='inv_1', got %v", err.Fields["id"])
		}
	})

	t.Run("Configuration", func(t *testing.T) {
		err := Configuration("ACCOUNT_NAME", "missing")
		if !IsConfiguration(err) {
			t.Errorf("expected configuration code, got %s", err.Code)
		}
	})

	t.Run("Validationf", func(t *testing.T) {
		err := Validationf("unknown fit %q", "cover")
		if err.Code != CodeValidation {
			t.Errorf("expected code=%s, got %s", CodeValidation, err.Code)
		}
	})
}

func TestCodePredicates(t *testing.T) {
	decode := New(CodeDecode, "x")
	upload := fmt.Errorf("outer: %w", New(CodeUpload, "x"))

	if !IsDecode(decode) || IsUpload(decode) {
		t.Error("decode predicate mismatch")
	}
	if !IsUpload(upload) {
		t.Error("expected IsUpload to see through fmt wrapping")
	}
	if IsDecode(fmt.Errorf("plain")) {
		t.Error("plain errors are internal, not decode")
	}
}

func TestGetHTTPStatus(t *testing.T) {
	if GetHTTPStatus(New(CodeDecode, "x")) != 422 {
		t.Errorf("expected status=422")
	}
	if GetHTTPStatus(fmt.Errorf("standard")) != 500 {
		t.Error("expected status=500 for standard error")
	}
}

func TestGetFields(t *testing.T) {
	err := New(CodeValidation, "invalid").WithField("field", "Data.blob")

	if GetFields(err)["field"] != "Data.blob" {
		t.Errorf("expected field='Data.blob', got %v", GetFields(err)["field"])
	}
	if GetFields(fmt.Errorf("standard")) != nil {
		t.Error("expected nil fields for standard error")
	}
}

func TestStackTrace(t *testing.T) {
	stack := New(CodeInternal, "test error").StackTrace()
	if !strings.Contains(stack, ".go:") {
		t.Errorf("expected stack trace to contain file references, got: %s", stack)
	}
}

func TestErrorIs(t *testing.T) {
	err1 := New(CodeUpload, "error 1")
	err2 := New(CodeUpload, "error 2")
	err3 := New(CodeDecode, "error 3")

	if !errors.Is(err1, err2) {
		t.Error("expected errors with same code to match with Is")
	}
	if errors.Is(err1, err3) {
		t.Error("expected errors with different codes to not match")
	}
}

func TestAsAndIs(t *testing.T) {
	original := New(CodeNotFound, "not found")
	wrapped := fmt.Errorf("wrapped: %w", original)

	var target *Error
	if !As(wrapped, &target) {
		t.Fatal("expected As to find Error in chain")
	}
	if target.Code != CodeNotFound {
		t.Errorf("expected code=%s, got %s", CodeNotFound, target.Code)
	}
	if !Is(wrapped, original) {
		t.Error("expected Is to match original error")
	}
}
