package services

import (
	"errors"
	"fmt"
)

// Machine-readable error codes surfaced to API clients. Internal causes are
// logged server-side and never leak into the code or message.
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidInput = "INVALID_INPUT"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL"
)

// Error is the service-layer error type. Code classifies the failure for
// the HTTP layer; Message is safe to show to callers; Err, when set, holds
// the wrapped cause for logs.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two service errors by code, so tests and callers can use
// errors.Is with the sentinel constructors below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// ErrUnauthorized reports a missing or unrecognized caller identity.
func ErrUnauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// ErrForbidden reports an operation the caller's role may not perform.
func ErrForbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// ErrNotFound reports a reference to a problem, store or supplier that
// does not exist.
func ErrNotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// ErrInvalidInput reports malformed or missing request data.
func ErrInvalidInput(message string) *Error {
	return &Error{Code: CodeInvalidInput, Message: message}
}

// ErrInternal wraps a storage or transport failure. The cause is kept for
// logging; callers only see the message.
func ErrInternal(message string, err error) *Error {
	return &Error{Code: CodeInternal, Message: message, Err: err}
}

// CodeOf returns the service error code for err, or CodeInternal when err
// is not a service error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the caller-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Unexpected failure"
}
