// Package secrets contains pure functions for secret planning.
// This is part of the Functional Core - all functions are pure with no I/O.
//
// The planner folds each service's declared secrets (bare names and
// detailed objects) together with auto-converted sensitive environment
// variables into one normalized list per service, and builds the
// document-level registry keyed by external source name. Conversion is
// idempotent and conflicting metadata for the same source is a hard
// compilation failure.
package secrets
