package secrets

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

// ErrConflict is returned when the same secret source is declared with
// differing mount metadata. Secret identity is the source name and its
// metadata must be consistent cluster-wide.
var ErrConflict = errors.New("conflicting secret declarations")

// ConflictError reports which source conflicts and where both
// declarations came from.
type ConflictError struct {
	Source        string
	FirstService  string
	SecondService string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("secret %q declared with different metadata by %q and %q",
		e.Source, e.FirstService, e.SecondService)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
