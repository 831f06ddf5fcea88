// Package validation is the single gate before serialization. This is
// part of the Functional Core - all functions are pure with no I/O.
//
// It walks the assembled document and confirms that every secret,
// network and volume reference inside a service fragment resolves to a
// top-level registry entry, enforces the exposure invariants, and
// round-trips the rendered YAML through the compose loader to catch
// structurally invalid output. Compilation is all-or-nothing: no partial
// manifest is ever emitted.
package validation
