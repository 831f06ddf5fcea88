package domain

import "fmt"

// =============================================================================
// Warnings
// =============================================================================

// WarningCode identifies a class of non-fatal finding.
type WarningCode string

const (
	// WarnVolumeRenamed is recorded when two services reuse a volume name
	// without marking it shared and the second occurrence is renamed.
	WarnVolumeRenamed WarningCode = "volume_renamed"
)

// Warning is a non-fatal finding attached to a successful compilation.
// Warnings never abort the run.
type Warning struct {
	Code    WarningCode
	Message string
}

// Warningf builds a Warning with a formatted message.
func Warningf(code WarningCode, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}
