package service

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a referenced document id does not exist.
// Callers must treat it as terminal for the operation, not retry.
var ErrNotFound = errors.New("document not found")

// ErrStorageUnavailable reports that the persistent medium rejected a
// read or write (lock contention, permissions, corruption). It is
// surfaced to the caller for user-visible reporting and never retried
// automatically.
var ErrStorageUnavailable = errors.New("storage unavailable")

// storageErr wraps an underlying storage failure so callers can match
// ErrStorageUnavailable with errors.Is while keeping the cause chain.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
