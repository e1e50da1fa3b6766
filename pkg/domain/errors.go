package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no employee exists for an id
	ErrNotFound = errors.New("employee not found")
	// ErrInvalidID is returned when an id is not a valid object id
	ErrInvalidID = errors.New("invalid employee id")
)

// StoreError wraps a failure reported by the backing store
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err unless it is nil or already a lookup failure.
func NewStoreError(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID) {
		return err
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// CastError reports a body value that cannot be coerced to the field's type
type CastError struct {
	Field string
	Kind  string
	Value interface{}
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cast to %s failed for value %v at path %q", e.Kind, e.Value, e.Field)
}

// IsLookupFailure reports whether err means the addressed employee does not exist.
func IsLookupFailure(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID)
}
