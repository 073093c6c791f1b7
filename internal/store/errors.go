package store

import (
	"errors"
	"fmt"
)

// ConstraintError reports a unique-key or foreign-key violation. The
// write fails cleanly with no partial effect; the caller may retry with
// different data.
type ConstraintError struct {
	Entity  string
	Op      string
	Message string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s %s: constraint violation: %s", e.Op, e.Entity, e.Message)
}

// ValidationError reports a structurally invalid input (import document
// missing required fields, update referencing a non-existent target).
// It is always raised before any write occurs.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Message
}

// TransportError reports a failed HTTP round-trip from the remote
// adapter: either a network failure or a non-2xx status. Status is zero
// when the request never reached the server.
type TransportError struct {
	Op      string
	Status  int
	Message string
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: transport: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: transport: HTTP %d: %s", e.Op, e.Status, e.Message)
}

// IsConstraint reports whether err is (or wraps) a ConstraintError.
func IsConstraint(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
