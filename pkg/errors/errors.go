// Package errors provides structured error types for the websketch agent.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Taxonomy
//
// The codes map onto the pipeline's failure modes:
//   - VALIDATION_FAILED: a precondition failed before any mutation; fully
//     recoverable, no side effect occurred
//   - EXECUTION_FAILED: a validated batch still failed to apply, or the
//     post-execution invariant check tripped; the batch was discarded
//     atomically
//   - PROPOSER_*: the external proposal call failed after retries, or its
//     response could not be parsed
//   - SESSION_*: persistence failures, distinguished as not-found vs
//     transient so callers can recreate a missing session
//
// # Usage
//
//	err := errors.New(errors.ErrCodeValidation, "operation %d: missing componentId", i)
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSessionStore, origErr, "update session %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeValidation   Code = "VALIDATION_FAILED"

	// Operation execution errors
	ErrCodeExecution Code = "EXECUTION_FAILED"

	// External proposer errors
	ErrCodeProposer      Code = "PROPOSER_FAILED"
	ErrCodeProposerParse Code = "PROPOSER_PARSE"

	// Image detection errors
	ErrCodeImageAnalysis Code = "IMAGE_ANALYSIS_FAILED"

	// Session persistence errors
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeSessionStore    Code = "SESSION_STORE"

	// Authentication errors
	ErrCodeUnauthorized Code = "UNAUTHORIZED"

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
