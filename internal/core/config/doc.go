// Package config contains pure functions for loading service descriptions.
// This is part of the Functional Core - all functions are pure with no I/O.
//
// Two input shapes are accepted and normalized into one canonical form:
//
//   - Array form: a JSON array of per-service objects.
//   - Legacy form: a JSON object of parallel arrays (services, images,
//     domains, ports, ...) zipped positionally.
//
// Downstream stages only ever see the canonical Input: an ordered list of
// domain.ServiceSpec records plus document-wide Globals. Input order is
// preserved so generated manifests stay diff-friendly.
package config
