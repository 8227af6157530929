// Package errors provides structured error types for nurl.
//
// Every failure nurl can report is terminal: the command prints a single
// message and exits non-zero. The codes below let callers (and tests)
// distinguish the failure classes without matching on message text.
//
// # Error Codes
//
//   - INVALID_*: the URL or the command-line input is malformed
//   - UNSUPPORTED: the chosen fetcher lacks a capability (latest revision,
//     hashing, revisions at all, or the URL's host)
//   - EXTERNAL_TOOL: nix or git exited unsuccessfully
//   - HASH_NOT_FOUND: a fixed-output build did not report a hash mismatch
//   - NETWORK_ERROR, NOT_FOUND, RATE_LIMITED: hosting API lookups
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupported, "%s does not support fetching the latest revision", name)
//	if errors.Is(err, errors.ErrCodeUnsupported) {
//	    // ...
//	}
//
//	err := errors.Wrap(errors.ErrCodeExternalTool, runErr, "nix flake prefetch failed")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidURL   Code = "INVALID_URL"

	// Capability errors
	ErrCodeUnsupported Code = "UNSUPPORTED"

	// External tool errors
	ErrCodeExternalTool Code = "EXTERNAL_TOOL"
	ErrCodeHashNotFound Code = "HASH_NOT_FOUND"

	// Hosting API errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeRateLimited Code = "RATE_LIMITED"

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

// UserMessage returns the message printed to the user.
// For *Error types the code prefix is dropped but the cause is kept, since
// it usually carries the captured output of a failed tool.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
	}
	return e.Message
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
