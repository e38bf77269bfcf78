// Package errors provides structured error types for the Grove application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and library packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - CODEC_*: Binary encode/decode failures
//   - QUERY_*: Graph query failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid user id: %s", id)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCodecCorrupt, origErr, "decode %d bytes", n)
//
// Structural problems found while parsing documents are not errors in this
// sense: they are accumulated as token.ParseError values alongside a
// best-effort result. The codes here cover request-fatal conditions only.
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidUserID Code = "INVALID_USER_ID"
	ErrCodeInvalidSchema Code = "INVALID_SCHEMA"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeUserNotFound Code = "USER_NOT_FOUND"

	// Binary codec errors (request-fatal: there is no safe partial answer)
	ErrCodeCodecEmpty    Code = "CODEC_EMPTY_TREE"
	ErrCodeCodecCorrupt  Code = "CODEC_CORRUPT"
	ErrCodeCodecTooShort Code = "CODEC_TRUNCATED"
	ErrCodeCodecVersion  Code = "CODEC_BAD_VERSION"

	// Graph query errors (request-fatal: "no overlap" must stay
	// distinguishable from "bad query")
	ErrCodeQueryEmpty       Code = "QUERY_EMPTY"
	ErrCodeQueryUnknownUser Code = "QUERY_UNKNOWN_USER"

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

// IsCodec reports whether err is any of the codec error codes.
func IsCodec(err error) bool {
	switch GetCode(err) {
	case ErrCodeCodecEmpty, ErrCodeCodecCorrupt, ErrCodeCodecTooShort, ErrCodeCodecVersion:
		return true
	}
	return false
}

// IsQuery reports whether err is any of the graph query error codes.
func IsQuery(err error) bool {
	switch GetCode(err) {
	case ErrCodeQueryEmpty, ErrCodeQueryUnknownUser:
		return true
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
