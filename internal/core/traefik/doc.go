// Package traefik provides pure functions for generating Traefik reverse
// proxy labels.
//
// This package contains the functional core logic for deriving routing
// rules and the Docker deploy labels that configure Traefik routing,
// retry middleware and rate limiting, plus the Prometheus scrape labels
// for monitored services. All functions are pure (no I/O, no side
// effects): calling them twice with identical input yields identical
// labels.
//
// # Functions
//
//   - BuildRule: derive a service's routing rule from its sealed spec
//   - RouteLabels: Traefik router/service/middleware labels for a rule
//   - MonitoringLabels: Prometheus scrape labels for a service
package traefik
