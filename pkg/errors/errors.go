package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates a scheduling conflict with an existing commitment
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransition indicates a disallowed status transition
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnauthorized indicates missing or invalid authentication
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// ConflictError creates a conflict error with context
func ConflictError(detail string) error {
	if detail != "" {
		return fmt.Errorf("%s: %w", detail, ErrConflict)
	}
	return ErrConflict
}

// InvalidTransitionError creates a transition error naming both statuses
func InvalidTransitionError(from, to string) error {
	return fmt.Errorf("cannot transition from '%s' to '%s': %w", from, to, ErrInvalidTransition)
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
