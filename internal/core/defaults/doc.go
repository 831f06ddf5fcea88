// Package defaults contains pure functions for environment-aware
// defaulting. This is part of the Functional Core - all functions are
// pure with no I/O.
//
// Resolve takes the loader's canonical Input together with immutable
// lookup tables and produces a sealed copy: every tri-state field is
// decided, every unset field is filled from tier- and role-aware
// defaults. The caller's Input is never mutated, so the same Input can
// be resolved against several tiers concurrently.
package defaults
