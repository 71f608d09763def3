// Package errors provides structured error types for circuitgen.
//
// Every error that crosses a package boundary carries a machine-readable
// [Code] so the CLI can map failures to exit messages and callers can branch
// on the category without string matching.
//
// # Error Codes
//
// Codes follow a flat naming convention:
//   - INVALID_*: input or configuration rejected before any work starts
//   - NODE_LIMIT: a level exceeds the solver's node budget
//   - NOT_FOUND: a requested level, template or cache entry is missing
//   - INTERNAL_ERROR: unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidTier, "unknown tier %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidTier) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidLevel, origErr, "load %s", path)
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
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidTier      Code = "INVALID_TIER"
	ErrCodeInvalidGenerator Code = "INVALID_GENERATOR"
	ErrCodeInvalidLevel     Code = "INVALID_LEVEL"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	// Budget errors
	ErrCodeNodeLimit Code = "NODE_LIMIT"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// NodeLimitError reports a level that is too large for a solver.
type NodeLimitError struct {
	Nodes int
	Limit int
}

// Error implements the error interface.
func (e *NodeLimitError) Error() string {
	return fmt.Sprintf("%s: level has %d nodes, limit is %d", ErrCodeNodeLimit, e.Nodes, e.Limit)
}

// Code returns the error code for this error type.
func (e *NodeLimitError) Code() Code {
	return ErrCodeNodeLimit
}

// IsNodeLimit reports whether err is, or wraps, a node-limit failure.
func IsNodeLimit(err error) bool {
	var nl *NodeLimitError
	return errors.As(err, &nl) || Is(err, ErrCodeNodeLimit)
}
