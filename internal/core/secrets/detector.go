package secrets

import "strings"

// =============================================================================
// Sensitivity Detection
// =============================================================================

// DefaultPatterns are the substrings that mark an environment variable
// as sensitive. Substring matching is inherently fuzzy, so the patterns
// are configuration, not policy baked into the planner.
var DefaultPatterns = []string{"password", "secret", "key", "token"}

// Detector decides whether an environment variable name refers to
// sensitive data. The zero value matches nothing.
type Detector struct {
	patterns []string
}

// NewDetector builds a detector over the given substring patterns.
// Matching is case-insensitive.
func NewDetector(patterns []string) Detector {
	lowered := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			lowered = append(lowered, p)
		}
	}
	return Detector{patterns: lowered}
}

// DefaultDetector returns a detector over DefaultPatterns.
func DefaultDetector() Detector {
	return NewDetector(DefaultPatterns)
}

// Sensitive reports whether the variable name matches any pattern.
// Names already pointing at a secret file (suffix _FILE) never match;
// converting them again would double-convert.
func (d Detector) Sensitive(name string) bool {
	if strings.HasSuffix(name, "_FILE") {
		return false
	}
	lower := strings.ToLower(name)
	for _, p := range d.patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
