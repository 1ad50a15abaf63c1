package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a caller-supplied value fails
	// validation. Nothing is mutated or written.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedRecord is returned by Open when the catalog file holds a
	// record that cannot be turned into a Book.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrIDsExhausted is returned by Add when the largest id in use is the
	// largest representable int, so no higher id can be assigned.
	ErrIDsExhausted = errors.New("no ids left to assign")
)

// InputError describes a rejected caller value.
type InputError struct {
	Field string
	Value string
	Err   error
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

// Is implements errors.Is support.
func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// Unwrap returns the underlying cause.
func (e *InputError) Unwrap() error { return e.Err }

// RecordError describes a bad record in the catalog file. Index is the
// zero-based position of the record, or -1 when the file as a whole is at
// fault.
type RecordError struct {
	Path  string
	Index int
	Field string
	Err   error
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: record %d: %s: %v", e.Path, e.Index, e.Field, e.Err)
}

// Is implements errors.Is support.
func (e *RecordError) Is(target error) bool { return target == ErrMalformedRecord }

// Unwrap returns the underlying cause.
func (e *RecordError) Unwrap() error { return e.Err }

var (
	errRequired  = errors.New("must not be empty")
	errMissing   = errors.New("missing")
	errNotInt    = errors.New("not an integer")
	errNotPos    = errors.New("must be a positive integer")
	errDuplicate = errors.New("duplicate id")
	errEncoding  = errors.New("file is not valid UTF-8")
)
