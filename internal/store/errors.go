package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("not found")

// StorageError wraps a database failure with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
