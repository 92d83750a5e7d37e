package skywatch

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by how callers should handle them.
type ErrorCategory string

const (
	// ErrorConfig indicates invalid or missing configuration. Fatal; the
	// orchestrator aborts before starting a run.
	ErrorConfig ErrorCategory = "config"

	// ErrorTransient indicates a temporary failure such as a rate limit or
	// network error. The sample driver does not retry these; they abort
	// the run, but remain distinguishable so a hardened caller can retry.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates a failure that will not succeed on retry,
	// such as a missing deployment or a rejected request.
	ErrorPermanent ErrorCategory = "permanent"
)

// CategorizedError is an error carrying handling metadata.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Retryable() bool // true iff Category == ErrorTransient
	StatusCode() int // HTTP status code if applicable, 0 otherwise
}

// Error is the categorized error type used throughout the module.
type Error struct {
	Msg   string
	Cat   ErrorCategory
	Code  int // HTTP status code, 0 if not applicable
	Cause error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.Cat
}

// Retryable returns true if the error is transient.
func (e *Error) Retryable() bool {
	return e.Cat == ErrorTransient
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// NewConfigError creates a fatal configuration error.
func NewConfigError(msg string, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorConfig, Cause: cause}
}

// NewTransientError creates a retryable error.
func NewTransientError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorTransient, Code: statusCode, Cause: cause}
}

// NewPermanentError creates an error that should not be retried.
func NewPermanentError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorPermanent, Code: statusCode, Cause: cause}
}

// IsConfig returns true if the error is a configuration error.
func IsConfig(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorConfig
	}
	return false
}

// IsTransient returns true if the error is categorized as transient.
func IsTransient(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorTransient
	}
	return false
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}
