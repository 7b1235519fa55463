package failure

import (
	"errors"
	"strings"
)

// FieldError is a validation failure of one form field.
// Key is a catalog message key, Args its arguments.
type FieldError struct {
	Field string
	Key   string
	Args  []any
}

// ValidationError is returned when input was rejected before any request was sent.
type ValidationError struct {
	Fields []FieldError
}

// Error implements error.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}

	return "invalid input: " + strings.Join(names, ", ")
}

// Add appends a field error.
func (e *ValidationError) Add(field, key string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Key: key, Args: args})
}

// OrNil returns e when it carries field errors, else nil.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}

	return e
}

// PartialSuccessError is returned when the first step of a two step
// mutation succeeded and the second one failed.
type PartialSuccessError struct {
	// Done describes the completed step, e.g. "User info".
	Done string
	Err  error
}

// Error implements error.
func (e *PartialSuccessError) Error() string {
	return e.Done + " updated but a follow-up step failed: " + e.Err.Error()
}

// Unwrap returns the error of the failed step.
func (e *PartialSuccessError) Unwrap() error {
	return e.Err
}

// ErrBusy is returned when a mutation of the same record is already in flight.
var ErrBusy = errors.New("another request for this record is in progress")

// ErrNotPermitted is returned when the actor may not perform a mutation.
// The request is never sent.
var ErrNotPermitted = errors.New("action not permitted")
