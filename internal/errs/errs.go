// Package errs defines the error taxonomy shared by the repositories.
//
// NetworkError and ParseError mark recoverable remote failures that the
// repositories fall back from; NotFoundError and StoreError surface directly
// to the caller.
package errs

import (
	"errors"
	"fmt"
)

// NetworkError wraps a transport-level failure: timeout, connection error
// or a non-2xx response.
type NetworkError struct {
	Op     string // e.g. "news.listLatest"
	Status int    // HTTP status, 0 when the request never completed
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError wraps a malformed remote payload.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s: parse response: %v", e.Op, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// NotFoundError reports a lookup or toggle on an id that is not in the store.
type NotFoundError struct {
	Kind string // entity kind, e.g. "article"
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Kind, e.ID) }

// StoreError wraps a local persistence failure. Treated as fatal, never
// retried.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

// IsRemote reports whether err is a network or parse failure, i.e. one the
// feed protocol may recover from with cached data.
func IsRemote(err error) bool {
	var ne *NetworkError
	var pe *ParseError
	return errors.As(err, &ne) || errors.As(err, &pe)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
