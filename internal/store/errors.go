package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by strict lookups when the entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks caller mistakes rejected at the engine boundary.
	ErrInvalidInput = errors.New("invalid input")
)

// InvalidInputError describes which argument was rejected and why.
// It matches ErrInvalidInput under errors.Is.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// InvalidInput builds an InvalidInputError with a formatted reason.
func InvalidInput(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
