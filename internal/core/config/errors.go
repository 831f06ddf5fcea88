package config

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// Input validation errors
	ErrEmptyInput  = errors.New("service description is empty")
	ErrInvalidJSON = errors.New("invalid JSON syntax")

	// ErrShapeMismatch is returned when legacy-form parallel arrays
	// disagree in length, or the input value has an unrecognized shape.
	ErrShapeMismatch = errors.New("input shape mismatch")

	// ErrMissingField is returned when a service record lacks a required
	// field (service_name or image).
	ErrMissingField = errors.New("missing required field")
)

// LoadError wraps errors with context about where loading failed.
type LoadError struct {
	Field   string // e.g., "services[2].image"
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(field, message string, err error) *LoadError {
	return &LoadError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
