package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"gridclip/pkg/logger"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "basic error without underlying",
			err:      &Error{Code: ExitCodeGeneral, Message: "test error"},
			expected: "test error",
		},
		{
			name:     "error with underlying",
			err:      &Error{Code: ExitCodeStore, Message: "store error", Underlying: errors.New("disk full")},
			expected: "store error: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("Error() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := NewWithError(ExitCodeClipboard, "clipboard", underlying)

	if !errors.Is(err, underlying) {
		t.Errorf("errors.Is(%v, underlying) = false, want true", err)
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		if Wrap(nil, "context") != nil {
			t.Error("Wrap(nil) should return nil")
		}
	})

	t.Run("plain error gets general code", func(t *testing.T) {
		err := Wrap(errors.New("boom"), "copying selection")
		if err.Code != ExitCodeGeneral {
			t.Errorf("Code = %d, want %d", err.Code, ExitCodeGeneral)
		}
		if err.Message != "copying selection" {
			t.Errorf("Message = %q", err.Message)
		}
	})

	t.Run("typed error keeps code and suggestion", func(t *testing.T) {
		inner := ClipboardError(errors.New("no xclip"))
		err := Wrap(inner, "copy")
		if err.Code != ExitCodeClipboard {
			t.Errorf("Code = %d, want %d", err.Code, ExitCodeClipboard)
		}
		if err.Suggestion != inner.Suggestion {
			t.Errorf("Suggestion = %q, want %q", err.Suggestion, inner.Suggestion)
		}
		if !strings.HasPrefix(err.Message, "copy: ") {
			t.Errorf("Message = %q, want prefix %q", err.Message, "copy: ")
		}
	})
}

func TestWrapWithCode(t *testing.T) {
	if WrapWithCode(nil, ExitCodeStore, "x") != nil {
		t.Error("WrapWithCode(nil) should return nil")
	}
	err := WrapWithCode(errors.New("locked"), ExitCodeStore, "open store")
	if !IsExitCode(err, ExitCodeStore) {
		t.Errorf("IsExitCode(%v, store) = false", err)
	}
	if IsExitCode(errors.New("plain"), ExitCodeStore) {
		t.Error("IsExitCode(plain error) = true, want false")
	}
	if !IsExitCode(fmt.Errorf("opening: %w", err), ExitCodeStore) {
		t.Error("IsExitCode should see an *Error through fmt wrapping")
	}
	if IsExitCode(nil, ExitCodeStore) {
		t.Error("IsExitCode(nil) = true, want false")
	}
}

func TestHandleReturn(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ExitCode
		wantOut  []string
	}{
		{
			name:     "nil",
			err:      nil,
			wantCode: ExitCodeSuccess,
		},
		{
			name:     "plain error",
			err:      errors.New("something broke"),
			wantCode: ExitCodeGeneral,
			wantOut:  []string{"Error: ", "something broke"},
		},
		{
			name:     "field not found lists fields",
			err:      FieldNotFoundError("Nme", []string{"Name", "Notes"}),
			wantCode: ExitCodeNotFound,
			wantOut:  []string{"Field 'Nme' not found", "Suggestion: ", "  - Name", "  - Notes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			code := handleTo(&buf, tt.err)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output %q does not contain %q", buf.String(), want)
				}
			}
		})
	}
}

func TestHandleReturn_CancellationLogsAtInfo(t *testing.T) {
	var logs bytes.Buffer
	logger.SetOutput(&logs)
	logger.SetLevel("debug")
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.SetLevel("info")
	})

	var out bytes.Buffer
	code := handleTo(&out, Wrap(New(ExitCodeCancellation, "operation canceled"), "clear"))
	if code != ExitCodeCancellation {
		t.Errorf("code = %d, want %d", code, ExitCodeCancellation)
	}
	if !strings.Contains(out.String(), "clear: operation canceled") {
		t.Errorf("output = %q", out.String())
	}

	var line map[string]any
	if err := json.Unmarshal(logs.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %q", logs.String())
	}
	if line["level"] != "info" {
		t.Errorf("level = %v, want info", line["level"])
	}
}
