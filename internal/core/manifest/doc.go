// Package manifest contains the output document model and the assembler
// that merges per-service fragments and global registries into one
// Docker-Swarm-flavored Compose document. This is part of the Functional
// Core - all functions are pure with no I/O.
//
// The services mapping preserves input order through a custom YAML
// marshaller so that generated manifests diff cleanly; every other
// mapping is rendered with sorted keys by the YAML encoder.
package manifest
