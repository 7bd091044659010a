package errors

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "node %d: missing id", 3)

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}
	if err.Message != "node 3: missing id" {
		t.Errorf("Message = %q", err.Message)
	}
	if want := "INVALID_INPUT: node 3: missing id"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidFormat, cause, "decode graph")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if want := "INVALID_FORMAT: decode graph: unexpected EOF"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestFile(t *testing.T) {
	_, missing := os.ReadFile(filepath.Join(t.TempDir(), "network.json"))
	_, dir := os.ReadFile(t.TempDir())

	tests := []struct {
		name  string
		cause error
		want  Code
	}{
		{"missing", missing, ErrCodeFileNotFound},
		{"directory", dir, ErrCodeInvalidPath},
		{"wrapped missing", fmt.Errorf("open: %w", os.ErrNotExist), ErrCodeFileNotFound},
		{"permission", os.ErrPermission, ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := File(tt.cause, "read %s", "network.json")
			if err.Code != tt.want {
				t.Errorf("Code = %v, want %v", err.Code, tt.want)
			}
			if !errors.Is(err, tt.cause) {
				t.Error("File() should keep the cause in the chain")
			}
		})
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeInvalidInput, "x"), ErrCodeInvalidInput, true},
		{"other code", New(ErrCodeInvalidInput, "x"), ErrCodeFileNotFound, false},
		{"outer code wins", Wrap(ErrCodeFileNotFound, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeFileNotFound, true},
		{"behind fmt wrap", fmt.Errorf("profile: %w", New(ErrCodeInvalidProfile, "x")), ErrCodeInvalidProfile, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
		{"nil with empty code", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidProfile, "x")); got != ErrCodeInvalidProfile {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeInvalidProfile)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "link 4: missing source")); got != "link 4: missing source" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", New(ErrCodeInvalidInput, "bad"), http.StatusBadRequest},
		{"invalid profile", New(ErrCodeInvalidProfile, "bad"), http.StatusBadRequest},
		{"wrapped invalid format", Wrap(ErrCodeInvalidFormat, errors.New("x"), "bad"), http.StatusBadRequest},
		{"file not found", New(ErrCodeFileNotFound, "missing"), http.StatusNotFound},
		{"unsupported", New(ErrCodeUnsupported, "nope"), http.StatusUnsupportedMediaType},
		{"internal", New(ErrCodeInternal, "boom"), http.StatusInternalServerError},
		{"plain", errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}
