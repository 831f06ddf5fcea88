package defaults

import (
	"fmt"
	"strings"

	"github.com/artpar/stackgen/internal/core/config"
	"github.com/artpar/stackgen/internal/core/domain"
)

// =============================================================================
// Resolver
// =============================================================================

// DefaultHealthPath is the health probe path used when a service does
// not name one.
const DefaultHealthPath = "/health"

// ProdPlacementConstraint keeps prod replicas off manager nodes.
const ProdPlacementConstraint = "node.role == worker"

// Resolved holds sealed service specs plus effective globals. After
// Resolve returns, every pointer field on every ServiceSpec is non-nil
// and downstream stages treat the specs as read-only.
type Resolved struct {
	Services []domain.ServiceSpec
	Globals  domain.Globals
}

// Resolve applies tier- and role-aware defaults and seals the specs.
// The input is deep-copied; the caller's data is never mutated.
func Resolve(in *config.Input, tables Tables) *Resolved {
	globals := effectiveGlobals(in.Globals)

	out := &Resolved{
		Services: make([]domain.ServiceSpec, 0, len(in.Services)),
		Globals:  globals,
	}

	for _, original := range in.Services {
		svc := original.Clone()
		sealService(&svc, globals, tables)
		out.Services = append(out.Services, svc)
	}

	return out
}

// effectiveGlobals applies tier-driven flag defaults. Prod implicitly
// enables retry, rate limiting and monitoring; per-service explicit
// overrides are honored later in sealService.
func effectiveGlobals(g domain.Globals) domain.Globals {
	out := g.Clone()
	if out.Tier == "" {
		out.Tier = domain.TierDev
	}
	if out.Tier == domain.TierProd {
		out.EnableRetry = true
		out.EnableRateLimit = true
		out.EnableMonitoring = true
	}
	if out.DeploymentStrategy == "" {
		out.DeploymentStrategy = domain.StrategyRolling
	}
	return out
}

func sealService(svc *domain.ServiceSpec, globals domain.Globals, tables Tables) {
	role := domain.RoleOf(svc.Name)

	// Exposure: workers and jobs stay internal unless told otherwise.
	if svc.Expose == nil {
		exposed := role != domain.RoleWorker
		svc.Expose = &exposed
	}

	// Domain prefix derives from the service name for exposed services.
	if svc.Exposed() && svc.Domain == "" {
		svc.Domain = strings.ReplaceAll(svc.Name, "_", "-")
	}

	if svc.Replicas <= 0 {
		svc.Replicas = globals.Replicas
	}
	if svc.HealthPath == "" {
		svc.HealthPath = DefaultHealthPath
	}
	if svc.DeploymentStrategy == "" {
		svc.DeploymentStrategy = globals.DeploymentStrategy
	}
	if svc.Environment == nil {
		svc.Environment = make(map[string]string)
	}

	// Role-based limit ceiling; never a reservation.
	if svc.Resources == nil && globals.ResourceLimits {
		svc.Resources = &domain.ResourceSpec{Limits: tables.Resources[role]}
	}

	if svc.HealthCheck == nil && globals.HealthChecks {
		svc.HealthCheck = defaultHealthCheck(svc, tables.Health[globals.Tier])
	}

	// Tri-state resilience toggles: explicit false always wins over the
	// tier default.
	svc.Retry = sealRetry(svc.Retry, globals.EnableRetry)
	svc.RateLimit = sealRateLimit(svc.RateLimit, globals.EnableRateLimit)
	if svc.Monitoring == nil {
		enabled := globals.EnableMonitoring
		svc.Monitoring = &enabled
	}
	if svc.UseSecrets == nil {
		enabled := globals.UseSecrets
		svc.UseSecrets = &enabled
	}

	// Named volumes declared without a path mount under the global dir.
	for i := range svc.Volumes {
		if !svc.Volumes[i].Anonymous() && svc.Volumes[i].Path == "" {
			svc.Volumes[i].Path = globals.VolumeDir
		}
	}

	if globals.Tier == domain.TierProd && !containsConstraint(svc.Constraints, ProdPlacementConstraint) {
		svc.Constraints = append([]string{ProdPlacementConstraint}, svc.Constraints...)
	}
}

func defaultHealthCheck(svc *domain.ServiceSpec, cadence HealthDefaults) *domain.HealthCheck {
	port := svc.Port
	if port == 0 {
		port = svc.InternalPort
	}
	if port == 0 {
		port = 8080
	}
	return &domain.HealthCheck{
		Test:        []string{"CMD", "curl", "-f", fmt.Sprintf("http://localhost:%d%s", port, svc.HealthPath)},
		Interval:    cadence.Interval,
		Timeout:     cadence.Timeout,
		Retries:     cadence.Retries,
		StartPeriod: cadence.StartPeriod,
	}
}

func sealRetry(policy *domain.RetryPolicy, tierDefault bool) *domain.RetryPolicy {
	if policy == nil {
		enabled := tierDefault
		return &domain.RetryPolicy{Enabled: &enabled}
	}
	if policy.Enabled == nil {
		enabled := tierDefault
		policy.Enabled = &enabled
	}
	return policy
}

func sealRateLimit(policy *domain.RateLimitPolicy, tierDefault bool) *domain.RateLimitPolicy {
	if policy == nil {
		enabled := tierDefault
		return &domain.RateLimitPolicy{Enabled: &enabled}
	}
	if policy.Enabled == nil {
		enabled := tierDefault
		policy.Enabled = &enabled
	}
	return policy
}

func containsConstraint(constraints []string, want string) bool {
	for _, c := range constraints {
		if c == want {
			return true
		}
	}
	return false
}
