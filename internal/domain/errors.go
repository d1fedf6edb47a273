package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyTitle is returned when a task title is blank.
	ErrEmptyTitle = errors.New("task title cannot be empty")

	// ErrInvalidPriority is returned when a priority is not low, medium or high.
	ErrInvalidPriority = errors.New("invalid task priority")

	// ErrInvalidStatus is returned when a status is not todo, in_progress or done.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrDueDateInPast is returned when a due date is not in the future.
	ErrDueDateInPast = errors.New("due date must be in the future")
)

// ValidationError describes a single invalid field. It unwraps to the
// underlying cause so callers can match on ErrValidation or a specific sentinel.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap exposes both the specific cause and ErrValidation.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil || errors.Is(e.Err, ErrValidation) {
		return []error{ErrValidation}
	}
	return []error{e.Err, ErrValidation}
}
