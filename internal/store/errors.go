package store

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSummaryNotFound = errors.New("summary not found")
	ErrSummaryExists   = errors.New("summary already exists")

	// ErrConflict covers stale versions, duplicate sequence numbers and busy leases
	ErrConflict = errors.New("conflicting update")
)

// PersistenceError wraps a storage failure. The operation was not applied and may be retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Retryable is always true; it lets callers match on behaviour instead of type
func (e *PersistenceError) Retryable() bool {
	return true
}

func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsPersistenceError reports whether err is (or wraps) a PersistenceError
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
