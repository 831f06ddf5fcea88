package validation

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrUnresolvedReference is returned when a service references a
	// secret, network or volume absent from the corresponding registry.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrSchema is returned when the document would serialize into a
	// structurally invalid manifest.
	ErrSchema = errors.New("invalid manifest structure")
)

// UnresolvedReferenceError names the dangling key and where it is used.
type UnresolvedReferenceError struct {
	Kind    string // "secret", "network" or "volume"
	Service string
	Name    string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("service %q references undeclared %s %q", e.Service, e.Kind, e.Name)
}

func (e *UnresolvedReferenceError) Unwrap() error {
	return ErrUnresolvedReference
}

// SchemaError wraps a structural problem with the offending location.
type SchemaError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *SchemaError) Unwrap() error {
	return ErrSchema
}
