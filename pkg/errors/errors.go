// Package errors provides structured error types for the uncouple engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes map to the engine's error taxonomy:
//   - INVALID_*: malformed model input or configuration
//   - WRONG_SEGMENT_COUNT: topology errors — junction skipped, never retried
//   - DISCONNECT_FAILED / DELETE_FAILED: host-operation errors after the
//     escalating retries are exhausted
//   - RECONNECT_FAILED: all six strategies declined
//   - INTERNAL_ERROR: unexpected failures that abort the batch
//
// # Usage
//
//	err := errors.New(errors.ErrCodeWrongSegmentCount, "junction %s has %d attached segments", id, n)
//	if errors.Is(err, errors.ErrCodeWrongSegmentCount) {
//	    // Skip this junction
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDeleteFailed, origErr, "delete junction %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Model input errors
	ErrCodeInvalidModel   Code = "INVALID_MODEL"
	ErrCodeInvalidElement Code = "INVALID_ELEMENT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeRunNotFound Code = "RUN_NOT_FOUND"

	// Topology errors — skip the junction, do not retry
	ErrCodeWrongSegmentCount Code = "WRONG_SEGMENT_COUNT"

	// Host-operation errors — surfaced after escalating retries are exhausted
	ErrCodeDisconnectFailed Code = "DISCONNECT_FAILED"
	ErrCodeDeleteFailed     Code = "DELETE_FAILED"
	ErrCodeCreateFailed     Code = "CREATE_FAILED"
	ErrCodeLinkIncompatible Code = "LINK_INCOMPATIBLE"

	// Strategy chain exhaustion
	ErrCodeReconnectFailed Code = "RECONNECT_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
