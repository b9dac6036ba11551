package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrHandoffNotFound = errors.New("handoff not found")
	ErrInvalidState    = errors.New("invalid state transition")
	ErrVersionConflict = errors.New("version conflict")
)

// ValidationError reports a malformed field value. Field is a stable key
// (e.g. "title", "priority") used to pick a localized message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StateError reports an illegal lifecycle transition.
type StateError struct {
	Entity string
	Op     string
	Status string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s %s in %s state", e.Op, e.Entity, e.Status)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}
