package core

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both a missing resource and a resource owned by another
// user; the two are deliberately indistinguishable to the caller.
var ErrNotFound = errors.New("resource not found")

// ValidationError rejects a request before any side effect happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError for a request field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError marks a blob-backend failure. It is fatal to the enclosing
// upload and surfaced to the caller.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("object storage: %v", e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// InferenceError marks a failed language-model call. The user message
// persisted before the call is retained.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string { return fmt.Sprintf("inference: %v", e.Err) }
func (e *InferenceError) Unwrap() error { return e.Err }
