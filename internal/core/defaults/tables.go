package defaults

import "github.com/artpar/stackgen/internal/core/domain"

// =============================================================================
// Default Tables
// =============================================================================
//
// The tables are plain values passed explicitly into Resolve rather than
// read from package state, so alternative sizing policies can be swapped
// in without touching the resolver.

// HealthDefaults is the tier-aware health-check cadence.
type HealthDefaults struct {
	Interval    string
	Timeout     string
	Retries     int
	StartPeriod string
}

// LogDefaults is the tier-aware log rotation sizing.
type LogDefaults struct {
	MaxSize string
	MaxFile string
}

// Tables bundles every defaulting table consulted by Resolve.
type Tables struct {
	// Resources maps a service role to its default limit ceiling.
	// Only limits are ever defaulted; reservations would starve small
	// deployment targets, so they are never derived.
	Resources map[domain.Role]domain.ResourceBand

	// Health maps a tier to its health-check cadence.
	Health map[domain.Tier]HealthDefaults

	// Logging maps a tier to its log rotation sizing.
	Logging map[domain.Tier]LogDefaults
}

// DefaultTables returns the standard defaulting tables.
func DefaultTables() Tables {
	return Tables{
		Resources: map[domain.Role]domain.ResourceBand{
			domain.RoleAPI:     {CPUs: "2.0", Memory: "2G"},
			domain.RoleWorker:  {CPUs: "1.0", Memory: "1G"},
			domain.RoleGeneric: {CPUs: "0.5", Memory: "512M"},
		},
		Health: map[domain.Tier]HealthDefaults{
			domain.TierDev:     {Interval: "15s", Timeout: "10s", Retries: 3, StartPeriod: "30s"},
			domain.TierStaging: {Interval: "15s", Timeout: "10s", Retries: 3, StartPeriod: "30s"},
			domain.TierProd:    {Interval: "30s", Timeout: "10s", Retries: 5, StartPeriod: "60s"},
		},
		Logging: map[domain.Tier]LogDefaults{
			domain.TierDev:     {MaxSize: "50m", MaxFile: "5"},
			domain.TierStaging: {MaxSize: "50m", MaxFile: "5"},
			domain.TierProd:    {MaxSize: "10m", MaxFile: "3"},
		},
	}
}
