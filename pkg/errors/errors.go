// Package errors provides structured error types for graphpad.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the editor core, HTTP API and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Validation codes are grouped by the operation family that raises them:
//   - node identity: DUPLICATE_ID, EMPTY_ID
//   - edge operations: SAME_ENDPOINT, MISSING_ENDPOINT, INVALID_DIRECTION, EDGE_NOT_FOUND
//   - analytics queries: NO_PATH, UNKNOWN_NODE
//   - backend boundary: READ_ONLY_ACCESS
//
// Analytics failures are normally reported as structured results rather than
// errors; the codes exist so API layers can surface them uniformly.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateID, "node %q already exists", id)
//	if errors.Is(err, errors.ErrCodeDuplicateID) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNotFound, origErr, "load graph %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Node identity violations
	ErrCodeDuplicateID Code = "DUPLICATE_ID"
	ErrCodeEmptyID     Code = "EMPTY_ID"

	// Edge operation violations
	ErrCodeSameEndpoint     Code = "SAME_ENDPOINT"
	ErrCodeMissingEndpoint  Code = "MISSING_ENDPOINT"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeEdgeNotFound     Code = "EDGE_NOT_FOUND"

	// Analytics query failures
	ErrCodeNoPath      Code = "NO_PATH"
	ErrCodeUnknownNode Code = "UNKNOWN_NODE"

	// Backend boundary
	ErrCodeReadOnlyAccess Code = "READ_ONLY_ACCESS"

	// Generic
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
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

// IsValidation reports whether err carries one of the local validation codes
// raised by node and edge operations. These leave the graph unchanged and are
// safe to show to the user verbatim.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeDuplicateID, ErrCodeEmptyID,
		ErrCodeSameEndpoint, ErrCodeMissingEndpoint,
		ErrCodeInvalidDirection, ErrCodeEdgeNotFound,
		ErrCodeInvalidInput:
		return true
	}
	return false
}
