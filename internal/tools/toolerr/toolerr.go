// Package toolerr defines the closed error taxonomy surfaced to MCP callers.
// Every tool failure is one of two kinds: the caller sent bad parameters, or
// the call failed inside the server or an upstream provider. Provider-specific
// failures are mapped to these kinds at the boundary so the tool layer never
// leaks a provider library's error types.
package toolerr

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable error category
type Kind string

const (
	// KindInvalidParams indicates malformed or out-of-range caller input
	KindInvalidParams Kind = "invalid_params"

	// KindInternal indicates a server-side or upstream provider failure
	// (authentication, usage limits, network errors)
	KindInternal Kind = "internal_error"
)

// Error is a structured tool error with a machine-readable kind
// and a human-readable message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidParams creates an invalid_params error from a format string
func InvalidParams(format string, args ...any) *Error {
	return &Error{
		Kind:    KindInvalidParams,
		Message: fmt.Sprintf(format, args...),
	}
}

// Internal wraps an upstream or server-side failure as an internal_error
func Internal(err error, message string) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind carried by err, or KindInternal for errors
// that were not produced by this package
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindInternal
}
