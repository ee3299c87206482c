// Package apierr defines the error kinds surfaced by the cascade engine
// and stores. Handlers map kinds to HTTP status codes; nothing below the
// HTTP layer knows about status codes.
package apierr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP layer.
type Kind int

const (
	// Internal is an unexpected failure (store I/O, programming error).
	Internal Kind = iota
	// Validation means a required input was missing or malformed.
	Validation
	// InvalidField means an unrecognized mutation target or note type.
	InvalidField
	// InvalidRole means an account type / membership role mismatch.
	InvalidRole
	// NotFound means a referenced user, club, membership, or note does not exist.
	NotFound
	// Conflict means a rename target or create identifier is already taken.
	Conflict
	// Forbidden means the requester is not permitted to perform the operation.
	Forbidden
	// Unauthenticated means the request carried no resolvable identity.
	Unauthenticated
)

// Error is a kind-tagged error. Use errors.As / KindOf to recover the kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a kind-tagged error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error with a kind and message.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind from err, or Internal if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
