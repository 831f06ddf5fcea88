package domain

// =============================================================================
// Routing
// =============================================================================

// RoutingRule is the derived reverse-proxy configuration for one exposed
// service. It is computed from ServiceSpec fields at label-generation
// time and never mutated afterwards.
type RoutingRule struct {
	Domain      string
	FQDN        string
	Host        string
	Port        int
	HealthPath  string
	MetricsPath string
	Retry       RetrySettings
	RateLimit   RateLimitSettings
}

// RetrySettings is the sealed retry middleware configuration.
type RetrySettings struct {
	Enabled  bool
	Attempts int
	Interval string
}

// RateLimitSettings is the sealed rate-limit middleware configuration.
type RateLimitSettings struct {
	Enabled bool
	Average int
	Burst   int
}
