package ledgererr

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation failed.
type Kind int

const (
	// NotFound: a referenced op, checkpoint, or seed balance is absent
	// when required.
	NotFound Kind = iota
	// Conflict: OpMutation.Before disagrees with the stored After.
	Conflict
	// Decode: a corrupted value was read back from an index.
	Decode
	// Invariant: a post-propagation cross-check failed.
	Invariant
	// Storage: the underlying key-value backend reported an I/O failure.
	Storage
	// BadInput: the mutation is malformed (both Before and After nil,
	// or a date outside the representable range).
	BadInput
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Decode:
		return "decode"
	case Invariant:
		return "invariant"
	case Storage:
		return "storage"
	case BadInput:
		return "bad_input"
	default:
		return "unknown"
	}
}

// sentinel lets callers match a Kind with errors.Is without reaching
// into a concrete *Error.
type sentinel Kind

func (s sentinel) Error() string { return Kind(s).String() }

var (
	ErrNotFound  error = sentinel(NotFound)
	ErrConflict  error = sentinel(Conflict)
	ErrDecode    error = sentinel(Decode)
	ErrInvariant error = sentinel(Invariant)
	ErrStorage   error = sentinel(Storage)
	ErrBadInput  error = sentinel(BadInput)
)

func sentinelFor(k Kind) error {
	switch k {
	case NotFound:
		return ErrNotFound
	case Conflict:
		return ErrConflict
	case Decode:
		return ErrDecode
	case Invariant:
		return ErrInvariant
	case Storage:
		return ErrStorage
	default:
		return ErrBadInput
	}
}

// Error is a ledger error carrying its Kind, a human-readable message,
// and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is the sentinel for e's Kind, so that
// errors.Is(err, ledgererr.ErrNotFound) works against a wrapped *Error.
func (e *Error) Is(target error) bool {
	return target == sentinelFor(e.Kind)
}

// New builds an *Error of the given kind with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error of the given kind wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err (or anything it wraps) is a ledgererr.Error of
// the given kind.
func Is(err error, kind Kind) bool {
	return errors.Is(err, sentinelFor(kind))
}

// As extracts the concrete *Error from err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
