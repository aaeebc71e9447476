// Package errors provides structured error types for dtviz.
//
// Errors carry a machine-readable Code alongside the human-readable
// message, so the CLI can pick exit behavior and the GUI can pick banner
// text without string matching.
//
// Usage:
//
//	err := errors.New(errors.ErrCodeParse, "unexpected token %q", tok)
//	if errors.Is(err, errors.ErrCodeParse) {
//	    // show the parse banner, keep the previous tree
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "reading %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the failure categories dtviz distinguishes.
const (
	// ErrCodeParse marks malformed device tree source.
	ErrCodeParse Code = "PARSE_ERROR"

	// ErrCodeConfig marks an unreadable or malformed config file.
	ErrCodeConfig Code = "CONFIG_ERROR"

	// ErrCodeBindings marks a bindings directory that cannot be indexed.
	ErrCodeBindings Code = "BINDINGS_ERROR"

	// ErrCodeExport marks a failed fragment export.
	ErrCodeExport Code = "EXPORT_ERROR"

	// ErrCodeNotFound marks a missing node or file.
	ErrCodeNotFound Code = "NOT_FOUND"

	// ErrCodeIO marks read/write failures on user files.
	ErrCodeIO Code = "IO_ERROR"

	// ErrCodeInternal marks bugs; the user can only report these.
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err carries the given error code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error chain holds no *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
