// Package errors defines coded errors shared by the CLI and the HTTP API.
//
// # Codes
//
// Every [Error] carries a [Code] that callers can branch on without
// parsing messages:
//   - INVALID_*: the scene, an option or a request body is malformed
//   - UNKNOWN_WIDGET: a constraint references a widget id that does not exist
//   - UNRESOLVED: the solver could not place every widget
//   - NOT_FOUND, INTERNAL_ERROR, UNSUPPORTED
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownWidget, "widget %q: target %q not found", id, ref)
//	if errors.Is(err, errors.ErrCodeUnknownWidget) {
//	    // report the bad reference
//	}
//
//	err = errors.Wrap(errors.ErrCodeInvalidScene, cause, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidScene   Code = "INVALID_SCENE"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidOptions Code = "INVALID_OPTIONS"
	ErrCodeUnknownWidget  Code = "UNKNOWN_WIDGET"

	ErrCodeUnresolved Code = "UNRESOLVED"
	ErrCodeNotFound   Code = "NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is an error with a code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Prefix returns err with a formatted context in front of its message,
// keeping its code.
func Prefix(err error, format string, args ...any) error {
	var e *Error
	if errors.As(err, &e) {
		out := *e
		out.Message = fmt.Sprintf(format, args...) + ": " + e.Message
		return &out
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of err without its code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps the code of err to a response status. Errors without a
// code are internal.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidScene, ErrCodeInvalidFormat,
		ErrCodeInvalidOptions, ErrCodeUnknownWidget:
		return http.StatusBadRequest
	case ErrCodeUnresolved:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
