// Package topology contains pure functions for network and volume
// planning. This is part of the Functional Core - all functions are pure
// with no I/O.
//
// Services without explicit networks are assigned by exposure: public
// services join the reverse-proxy network, internal services join the
// backend network. Named volumes are deduplicated into a document-level
// registry; reuse of a volume name without explicit sharing intent is
// repaired with a deterministic rename and reported as a warning, not an
// error.
package topology
