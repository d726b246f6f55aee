// Package ledgererr defines the error taxonomy shared by every ledger
// package: a closed set of Kind values plus a wrapping Error type that
// composes with errors.Is and errors.As.
//
// Callers that need to branch on failure class use errors.Is against
// the Kind sentinels (ErrNotFound, ErrConflict, ...); callers that need
// the message or the wrapped cause use errors.As to unwrap the concrete
// *Error.
package ledgererr
