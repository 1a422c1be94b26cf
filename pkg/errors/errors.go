// Package errors provides structured error types for erdantic.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and CLI
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Diagram construction distinguishes fatal conditions (forward references,
// structural violations) from the expected negative lookup when a field's
// type is a plain scalar rather than a model. Only the fatal conditions are
// represented here; the negative lookup is an ordinary boolean result on the
// adapter registry.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownModelType, "unknown model type: %T", obj)
//	if errors.Is(err, errors.ErrCodeUnknownModelType) {
//	    // Handle unsupported root
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Diagram construction errors
	ErrCodeUnknownModelType Code = "UNKNOWN_MODEL_TYPE"
	ErrCodeUnknownField     Code = "UNKNOWN_FIELD"
	ErrCodeNotAType         Code = "NOT_A_TYPE"

	// Forward reference errors. These are distinct kinds because they call
	// for different fixes: resolving a string annotation vs finishing a
	// deferred type binding.
	ErrCodeStringForwardRef      Code = "STRING_FORWARD_REF"
	ErrCodeUnevaluatedForwardRef Code = "UNEVALUATED_FORWARD_REF"

	// Adapter contract violations
	ErrCodeInvalidModel Code = "INVALID_MODEL"
	ErrCodeInvalidField Code = "INVALID_FIELD"

	// Input validation errors
	ErrCodeInvalidManifest    Code = "INVALID_MANIFEST"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidOrientation Code = "INVALID_ORIENTATION"
	ErrCodeModelNotFound      Code = "MODEL_NOT_FOUND"

	// Internal errors
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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
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
