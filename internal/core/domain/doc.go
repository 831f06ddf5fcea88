// Package domain contains the canonical data model shared by every
// compiler stage.
//
// The types here are plain values with no behavior beyond small pure
// helpers. The Config Loader constructs ServiceSpec records, the
// Defaulting stage seals them (resolves every tri-state field), and all
// later stages treat them as read-only. Nothing in this package performs
// I/O or holds global state.
package domain
