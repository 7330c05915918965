// Package poserr defines the error taxonomy shared by the POS client.
//
// Every failure a terminal operation can surface falls into one of four
// categories:
//   - Validation: bad user input; the operation is aborted locally and no
//     network call is made.
//   - NotFound: a referenced menu item or invoice is missing from the cache
//     and the fetch fallback.
//   - Permission: the server rejected a mutation (e.g. deleting a paid
//     invoice without an elevated role). Surfaced verbatim, no retry.
//   - Network: transport failure or an unexpected non-2xx response. The
//     triggering local state is left intact so the user can retry.
//
// None of these are fatal: the session keeps running and only the specific
// operation fails.
package poserr

import (
	"errors"
	"fmt"
)

// Code categorizes a POS client error.
type Code string

const (
	// CodeValidation indicates rejected user input. No network call was made.
	CodeValidation Code = "VALIDATION"

	// CodeNotFound indicates a referenced entity is missing.
	CodeNotFound Code = "NOT_FOUND"

	// CodePermission indicates the server refused a mutation.
	CodePermission Code = "PERMISSION"

	// CodeNetwork indicates a transport failure or unexpected server response.
	CodeNetwork Code = "NETWORK"
)

// Error is a categorized POS client error.
//
// Details carries additional context for diagnostics (entity IDs, HTTP
// status, amounts). Err holds the underlying cause, if any.
type Error struct {
	Code    Code
	Message string
	Details map[string]string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Validation creates a validation error from a format string.
func Validation(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not-found error from a format string.
func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Permission creates a permission error. The message should carry the
// server's wording so the user sees the rejection verbatim.
func Permission(format string, args ...any) *Error {
	return &Error{Code: CodePermission, Message: fmt.Sprintf(format, args...)}
}

// Network wraps a transport-level failure.
func Network(err error, format string, args ...any) *Error {
	return &Error{Code: CodeNetwork, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithDetail attaches a key/value pair, allocating the map on first use.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// codeOf extracts the Code from an error, or "" if it is not a poserr.Error.
func codeOf(err error) Code {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsValidation returns true if the error is a validation error.
// Uses errors.As to handle wrapped errors.
func IsValidation(err error) bool { return codeOf(err) == CodeValidation }

// IsNotFound returns true if the error is a not-found error.
func IsNotFound(err error) bool { return codeOf(err) == CodeNotFound }

// IsPermission returns true if the error is a permission error.
func IsPermission(err error) bool { return codeOf(err) == CodePermission }

// IsNetwork returns true if the error is a network error.
func IsNetwork(err error) bool { return codeOf(err) == CodeNetwork }
