package topology

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

// ErrConflict is returned when two services explicitly share a volume
// name but declare incompatible metadata for it.
var ErrConflict = errors.New("conflicting volume declarations")

// ConflictError reports which volume conflicts and where both
// declarations came from.
type ConflictError struct {
	Volume        string
	FirstService  string
	SecondService string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("shared volume %q declared with different metadata by %q and %q",
		e.Volume, e.FirstService, e.SecondService)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
