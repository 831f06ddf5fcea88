package domain

// =============================================================================
// Environment Tiers
// =============================================================================

// Tier is the deployment environment classification.
type Tier string

const (
	TierDev     Tier = "dev"
	TierStaging Tier = "staging"
	TierProd    Tier = "prod"
)

// ParseTier maps a tier string to a known Tier. Unknown or empty values
// fall back to dev, which carries no auto-enabling behavior.
func ParseTier(s string) Tier {
	switch Tier(s) {
	case TierStaging:
		return TierStaging
	case TierProd:
		return TierProd
	default:
		return TierDev
	}
}

// =============================================================================
// Deployment Strategies
// =============================================================================

// Strategy selects the update-config shape for a service's deploy block.
// Only rolling is interpreted by the compiler itself; blue-green and
// canary are recorded for an external deployer.
type Strategy string

const (
	StrategyRolling   Strategy = "rolling"
	StrategyBlueGreen Strategy = "blue-green"
	StrategyCanary    Strategy = "canary"
)

// ParseStrategy maps a strategy string to a known Strategy, defaulting
// to rolling.
func ParseStrategy(s string) Strategy {
	switch Strategy(s) {
	case StrategyBlueGreen:
		return StrategyBlueGreen
	case StrategyCanary:
		return StrategyCanary
	default:
		return StrategyRolling
	}
}

// =============================================================================
// Globals
// =============================================================================

// Globals holds document-wide settings shared by every service. They come
// from the legacy form's top-level keys, from global keys on array-form
// elements, or from CLI overrides.
type Globals struct {
	Tier     Tier
	FQDN     string
	Replicas int

	HealthChecks      bool
	ResourceLimits    bool
	VolumePersistence bool
	VolumeDir         string
	EnableRetry       bool
	EnableRateLimit   bool
	EnableMonitoring  bool
	EnableLogging     bool
	NetworkSeparation bool
	UseSecrets        bool

	DeploymentStrategy Strategy
	ExternalNetworks   []string
}

// Clone returns a deep copy of the globals.
func (g Globals) Clone() Globals {
	out := g
	if g.ExternalNetworks != nil {
		out.ExternalNetworks = append([]string(nil), g.ExternalNetworks...)
	}
	return out
}
