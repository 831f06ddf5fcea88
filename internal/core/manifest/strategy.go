package manifest

import "github.com/artpar/stackgen/internal/core/domain"

// =============================================================================
// Deployment Strategy Shapes
// =============================================================================

// StrategyLabelKey records non-rolling strategies on the deploy block
// for the external deployer; the compiler itself never shifts traffic.
const StrategyLabelKey = "stackgen.strategy"

// updateConfigFor selects the update-config shape for a strategy.
//
// Rolling replaces one task at a time in prod (two elsewhere) and stops
// the old task first. Blue-green flips everything at once, start-first.
// Canary rolls a single task with a long delay and pauses on failure so
// the deployer can inspect it.
func updateConfigFor(strategy domain.Strategy, tier domain.Tier) *UpdateConfig {
	switch strategy {
	case domain.StrategyBlueGreen:
		return &UpdateConfig{
			Parallelism:     999,
			Delay:           "0s",
			FailureAction:   "rollback",
			Monitor:         "5m",
			MaxFailureRatio: 0,
			Order:           "start-first",
		}
	case domain.StrategyCanary:
		return &UpdateConfig{
			Parallelism:     1,
			Delay:           "5m",
			FailureAction:   "pause",
			Monitor:         "10m",
			MaxFailureRatio: 0.1,
			Order:           "start-first",
		}
	default:
		cfg := &UpdateConfig{
			Parallelism:     2,
			Delay:           "10s",
			FailureAction:   "rollback",
			Monitor:         "30s",
			MaxFailureRatio: 0.3,
			Order:           "stop-first",
		}
		if tier == domain.TierProd {
			cfg.Parallelism = 1
			cfg.Delay = "30s"
			cfg.Monitor = "5m"
			cfg.MaxFailureRatio = 0.1
		}
		return cfg
	}
}

// rollbackConfigFor returns the prod rollback shape; other tiers rely on
// the update failure action alone.
func rollbackConfigFor(tier domain.Tier) *UpdateConfig {
	if tier != domain.TierProd {
		return nil
	}
	return &UpdateConfig{
		Parallelism:     1,
		Delay:           "10s",
		FailureAction:   "continue",
		Monitor:         "5m",
		MaxFailureRatio: 0.1,
	}
}
