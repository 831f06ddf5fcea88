package traefik

import (
	"fmt"
	"strings"

	"github.com/artpar/stackgen/internal/core/domain"
)

// =============================================================================
// Traefik Label Generation
// =============================================================================

// Fixed label building blocks.
const (
	ingressNetwork = "traefik-public"
	entrypoint     = "websecure"
	certResolver   = "cloudflare"

	// baseMiddleware is applied to every exposed router; it is defined
	// in the Traefik file provider, not generated here.
	baseMiddleware = "secureHeaders@file"
)

// RouteLabels generates the deploy labels wiring a service into the
// reverse proxy: router rule, TLS termination, loadbalancer port and the
// middleware chain. The label order is fixed, so output is deterministic.
//
// Example:
//
//	rule := BuildRule(svc, globals)
//	labels := RouteLabels("api", *rule)
//	// labels[0] == "traefik.enable=true"
//	// ...
//	// last label == "traefik.http.routers.api.middlewares=secureHeaders@file,api-retry,api-ratelimit"
func RouteLabels(service string, rule domain.RoutingRule) []string {
	labels := []string{
		"traefik.enable=true",
		"traefik.swarm.network=" + ingressNetwork,
		fmt.Sprintf("traefik.http.routers.%s.rule=Host(`%s`)", service, rule.Host),
		fmt.Sprintf("traefik.http.routers.%s.entrypoints=%s", service, entrypoint),
		fmt.Sprintf("traefik.http.routers.%s.tls=true", service),
		fmt.Sprintf("traefik.http.routers.%s.tls.certresolver=%s", service, certResolver),
		fmt.Sprintf("traefik.http.services.%s.loadbalancer.server.port=%d", service, rule.Port),
		fmt.Sprintf("traefik.http.routers.%s.service=%s", service, service),
	}

	middlewares := []string{baseMiddleware}

	if rule.Retry.Enabled {
		name := service + "-retry"
		middlewares = append(middlewares, name)
		labels = append(labels,
			fmt.Sprintf("traefik.http.middlewares.%s.retry.attempts=%d", name, rule.Retry.Attempts),
			fmt.Sprintf("traefik.http.middlewares.%s.retry.initialinterval=%s", name, rule.Retry.Interval),
		)
	}

	if rule.RateLimit.Enabled {
		name := service + "-ratelimit"
		middlewares = append(middlewares, name)
		labels = append(labels,
			fmt.Sprintf("traefik.http.middlewares.%s.ratelimit.average=%d", name, rule.RateLimit.Average),
			fmt.Sprintf("traefik.http.middlewares.%s.ratelimit.burst=%d", name, rule.RateLimit.Burst),
		)
	}

	labels = append(labels,
		fmt.Sprintf("traefik.http.routers.%s.middlewares=%s", service, strings.Join(middlewares, ",")))

	return labels
}

// MonitoringLabels generates Prometheus scrape labels for a monitored
// service. The scrape port prefers the routed port, then the internal
// port, then 8080.
func MonitoringLabels(svc domain.ServiceSpec, rule *domain.RoutingRule) []string {
	port := svc.InternalPort
	path := svc.MetricsPath
	if rule != nil {
		port = rule.Port
		path = rule.MetricsPath
	}
	if port == 0 {
		port = 8080
	}
	if path == "" {
		path = DefaultMetricsPath
	}

	return []string{
		"prometheus.io/scrape=true",
		fmt.Sprintf("prometheus.io/port=%d", port),
		"prometheus.io/path=" + path,
		"prometheus.io/job=" + svc.Name,
		"service.name=" + svc.Name,
	}
}
