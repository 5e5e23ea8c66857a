package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gridclip/pkg/logger"

	"github.com/fatih/color"
)

type ExitCode int

const (
	ExitCodeSuccess       ExitCode = 0
	ExitCodeGeneral       ExitCode = 1
	ExitCodeConfig        ExitCode = 2
	ExitCodeValidation    ExitCode = 3
	ExitCodeFileOperation ExitCode = 4
	ExitCodeClipboard     ExitCode = 5
	ExitCodeStore         ExitCode = 6
	ExitCodeNotFound      ExitCode = 7
	ExitCodeCancellation  ExitCode = 8
)

// Standardized error messages for consistent user-facing errors
const (
	ErrMsgClipboardWrite = "Failed to write to the system clipboard"
	ErrMsgClipboardRead  = "Failed to read the clipboard contents"
	ErrMsgStoreOpen      = "Failed to open the clipboard store"
	ErrMsgGridLoad       = "Failed to load grid document"
	ErrMsgGridSave       = "Failed to save grid document"
	ErrMsgInvalidInput   = "Invalid input provided"
)

type Error struct {
	Code       ExitCode
	Message    string
	Underlying error
	Suggestion string
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func New(code ExitCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func NewWithError(code ExitCode, message string, err error) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
	}
}

func NewWithSuggestion(code ExitCode, message string, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	if wrapped, ok := err.(*Error); ok {
		return &Error{
			Code:       wrapped.Code,
			Message:    message + ": " + wrapped.Message,
			Underlying: wrapped.Underlying,
			Suggestion: wrapped.Suggestion,
		}
	}

	return &Error{
		Code:       ExitCodeGeneral,
		Message:    message,
		Underlying: err,
	}
}

func WrapWithCode(err error, code ExitCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
	}
}

// IsExitCode reports whether err, or an error it wraps, is an *Error with
// the given code.
func IsExitCode(err error, code ExitCode) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// HandleReturn logs err, prints it to stderr and returns the exit code the
// process should terminate with. The caller decides whether to exit.
func HandleReturn(err error) ExitCode {
	return handleTo(os.Stderr, err)
}

func handleTo(w io.Writer, err error) ExitCode {
	if err == nil {
		return ExitCodeSuccess
	}

	exitCode := ExitCodeGeneral
	var message string
	var suggestion string

	if e, ok := err.(*Error); ok {
		exitCode = e.Code
		message = e.Error()
		suggestion = e.Suggestion

		// Declined prompts log at info.
		event := logger.Error()
		if IsExitCode(err, ExitCodeCancellation) {
			event = logger.Info()
		}
		if e.Underlying != nil {
			event = event.Err(e.Underlying)
		}
		event.Int("exit_code", int(exitCode)).Msg(e.Message)
	} else {
		message = err.Error()
		logger.Error().Msg(message)
	}

	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(w)
	red.Fprint(w, "Error: ")
	fmt.Fprintln(w, message)

	if suggestion != "" {
		yellow.Fprint(w, "Suggestion: ")
		lines := strings.Split(suggestion, "\n")
		for i, line := range lines {
			if i == 0 {
				fmt.Fprintln(w, line)
				continue
			}
			if strings.HasPrefix(line, "  -") {
				cyan.Fprintln(w, line)
			} else {
				fmt.Fprintln(w, "           "+line)
			}
		}
	}

	fmt.Fprintln(w)

	return exitCode
}

func ConfigError(message string) *Error {
	return &Error{
		Code:       ExitCodeConfig,
		Message:    message,
		Suggestion: "Check ~/.config/gridclip/config.yaml or run 'gridclip config show'",
	}
}

func ValidationError(message string) *Error {
	return &Error{
		Code:    ExitCodeValidation,
		Message: message,
	}
}

func FileError(operation, path string, err error) *Error {
	return &Error{
		Code:       ExitCodeFileOperation,
		Message:    fmt.Sprintf("Failed to %s '%s'", operation, path),
		Underlying: err,
	}
}

func ClipboardError(err error) *Error {
	return &Error{
		Code:       ExitCodeClipboard,
		Message:    ErrMsgClipboardWrite,
		Underlying: err,
		Suggestion: "On Linux install xclip, xsel or wl-clipboard so the system clipboard is reachable.",
	}
}

func StoreError(message string, err error) *Error {
	return &Error{
		Code:       ExitCodeStore,
		Message:    message,
		Underlying: err,
	}
}

func FieldNotFoundError(name string, available []string) *Error {
	suggestion := "Check the field names declared in the grid document."
	if len(available) > 0 {
		suggestion = "Available fields:\n"
		for _, f := range available {
			suggestion += fmt.Sprintf("  - %s\n", f)
		}
	}
	return &Error{
		Code:       ExitCodeNotFound,
		Message:    fmt.Sprintf("Field '%s' not found", name),
		Suggestion: strings.TrimRight(suggestion, "\n"),
	}
}
