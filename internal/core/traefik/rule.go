package traefik

import (
	"fmt"

	"github.com/artpar/stackgen/internal/core/domain"
)

// =============================================================================
// Routing Rule Derivation
// =============================================================================

// Resilience middleware defaults, used when a policy is enabled without
// explicit values.
const (
	DefaultRetryAttempts = 3
	DefaultRetryInterval = "100ms"

	DefaultRateLimitAverage = 100
	DefaultRateLimitBurst   = 50
)

// DefaultMetricsPath is the Prometheus scrape path used when a service
// does not name one.
const DefaultMetricsPath = "/metrics"

// BuildRule derives the routing rule for a sealed service. Returns nil
// for services that are not exposed or have no routable domain/port.
//
// The host is <domain>.<fqdn> in prod and <domain>-<tier>.<fqdn> in
// every other tier, so staging and prod manifests for the same service
// never collide on a hostname.
func BuildRule(svc domain.ServiceSpec, globals domain.Globals) *domain.RoutingRule {
	if !svc.Exposed() || svc.Domain == "" || svc.Port == 0 {
		return nil
	}

	host := fmt.Sprintf("%s-%s.%s", svc.Domain, globals.Tier, globals.FQDN)
	if globals.Tier == domain.TierProd {
		host = fmt.Sprintf("%s.%s", svc.Domain, globals.FQDN)
	}

	rule := &domain.RoutingRule{
		Domain:      svc.Domain,
		FQDN:        globals.FQDN,
		Host:        host,
		Port:        svc.Port,
		HealthPath:  svc.HealthPath,
		MetricsPath: svc.MetricsPath,
		Retry:       sealRetrySettings(svc.Retry),
		RateLimit:   sealRateLimitSettings(svc.RateLimit),
	}
	if rule.MetricsPath == "" {
		rule.MetricsPath = DefaultMetricsPath
	}
	return rule
}

func sealRetrySettings(policy *domain.RetryPolicy) domain.RetrySettings {
	settings := domain.RetrySettings{
		Attempts: DefaultRetryAttempts,
		Interval: DefaultRetryInterval,
	}
	if policy == nil {
		return settings
	}
	settings.Enabled = policy.Enabled != nil && *policy.Enabled
	if policy.Attempts > 0 {
		settings.Attempts = policy.Attempts
	}
	if policy.Interval != "" {
		settings.Interval = policy.Interval
	}
	return settings
}

func sealRateLimitSettings(policy *domain.RateLimitPolicy) domain.RateLimitSettings {
	settings := domain.RateLimitSettings{
		Average: DefaultRateLimitAverage,
		Burst:   DefaultRateLimitBurst,
	}
	if policy == nil {
		return settings
	}
	settings.Enabled = policy.Enabled != nil && *policy.Enabled
	if policy.Average > 0 {
		settings.Average = policy.Average
	}
	if policy.Burst > 0 {
		settings.Burst = policy.Burst
	}
	return settings
}
