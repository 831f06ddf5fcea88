package domain

import "strings"

// =============================================================================
// ServiceSpec
// =============================================================================

// ServiceSpec describes one deployable unit.
//
// The Config Loader constructs one ServiceSpec per input record. Pointer
// fields are tri-state (nil = not specified) until the Defaulting stage
// seals the spec; after sealing they are always non-nil and downstream
// stages read them without further nil checks.
type ServiceSpec struct {
	Name         string
	Image        string
	Expose       *bool
	Port         int
	InternalPort int
	Domain       string
	Replicas     int

	Environment map[string]string
	Secrets     []SecretDeclaration
	Volumes     []VolumeSpec
	Networks    []string

	Resources   *ResourceSpec
	HealthCheck *HealthCheck
	HealthPath  string
	MetricsPath string
	Constraints []string

	Retry      *RetryPolicy
	RateLimit  *RateLimitPolicy
	Monitoring *bool
	UseSecrets *bool

	DeploymentStrategy Strategy
}

// Exposed reports whether the sealed spec is publicly reachable.
// Before sealing, a nil Expose is treated as not exposed.
func (s *ServiceSpec) Exposed() bool {
	return s.Expose != nil && *s.Expose
}

// Role classifies a service by its name for default sizing.
type Role string

const (
	RoleAPI     Role = "api"
	RoleWorker  Role = "worker"
	RoleGeneric Role = "generic"
)

// RoleOf infers a service role from its name. Names containing "api" or
// "backend" are sized as API services, "worker" or "job" as background
// workers, everything else gets the smallest tier.
func RoleOf(name string) Role {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "worker") || strings.Contains(lower, "job"):
		return RoleWorker
	case strings.Contains(lower, "api") || strings.Contains(lower, "backend"):
		return RoleAPI
	default:
		return RoleGeneric
	}
}

// Clone returns a deep copy of the spec. Stages that adjust per-service
// data operate on clones so the caller's input is never aliased.
func (s *ServiceSpec) Clone() ServiceSpec {
	out := *s

	out.Expose = cloneBool(s.Expose)
	out.Monitoring = cloneBool(s.Monitoring)
	out.UseSecrets = cloneBool(s.UseSecrets)

	if s.Environment != nil {
		out.Environment = make(map[string]string, len(s.Environment))
		for k, v := range s.Environment {
			out.Environment[k] = v
		}
	}
	if s.Secrets != nil {
		out.Secrets = append([]SecretDeclaration(nil), s.Secrets...)
	}
	if s.Volumes != nil {
		out.Volumes = append([]VolumeSpec(nil), s.Volumes...)
	}
	if s.Networks != nil {
		out.Networks = append([]string(nil), s.Networks...)
	}
	if s.Constraints != nil {
		out.Constraints = append([]string(nil), s.Constraints...)
	}
	if s.Resources != nil {
		r := *s.Resources
		if s.Resources.Reservations != nil {
			band := *s.Resources.Reservations
			r.Reservations = &band
		}
		out.Resources = &r
	}
	if s.HealthCheck != nil {
		h := *s.HealthCheck
		h.Test = append([]string(nil), s.HealthCheck.Test...)
		out.HealthCheck = &h
	}
	if s.Retry != nil {
		r := *s.Retry
		r.Enabled = cloneBool(s.Retry.Enabled)
		out.Retry = &r
	}
	if s.RateLimit != nil {
		r := *s.RateLimit
		r.Enabled = cloneBool(s.RateLimit.Enabled)
		out.RateLimit = &r
	}

	return out
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// =============================================================================
// Secrets
// =============================================================================

// SecretDeclaration references an externally provisioned secret.
//
// Identity is the Source name: every declaration with the same Source
// must carry identical Target, Mode, UID and GID across the whole
// document, otherwise compilation fails with a conflict.
type SecretDeclaration struct {
	Source string
	Target string
	Mode   uint32 // 0 = unset
	UID    string
	GID    string
}

// Bare reports whether the declaration is a plain reference by name with
// no mount metadata.
func (d SecretDeclaration) Bare() bool {
	return d.Target == "" && d.Mode == 0 && d.UID == "" && d.GID == ""
}

// SameMetadata reports whether two declarations for the same source are
// compatible.
func (d SecretDeclaration) SameMetadata(other SecretDeclaration) bool {
	return d.Target == other.Target &&
		d.Mode == other.Mode &&
		d.UID == other.UID &&
		d.GID == other.GID
}

// =============================================================================
// Networks
// =============================================================================

// NetworkKind classifies a network for registry declaration.
type NetworkKind string

const (
	NetworkPublic   NetworkKind = "public"
	NetworkInternal NetworkKind = "internal"
	NetworkExternal NetworkKind = "external"
)

// NetworkRef is a network name plus its derived kind.
type NetworkRef struct {
	Name string
	Kind NetworkKind
}

// =============================================================================
// Volumes
// =============================================================================

// VolumeSpec is a normalized volume request. An anonymous volume has an
// empty Name and only a Path; named volumes are declared in the document
// registry with driver and backup metadata.
type VolumeSpec struct {
	Name   string
	Path   string
	Driver string
	Backup bool
	Shared bool
}

// Anonymous reports whether the volume is an unnamed, ephemeral mount.
func (v VolumeSpec) Anonymous() bool {
	return v.Name == ""
}

// SameMetadata reports whether two named volumes may share a declaration.
func (v VolumeSpec) SameMetadata(other VolumeSpec) bool {
	return v.Driver == other.Driver && v.Backup == other.Backup
}

// =============================================================================
// Resources & Health
// =============================================================================

// ResourceSpec carries deploy-time resource settings. Limits are always
// present when resource limiting is on; Reservations are only ever
// emitted when explicitly supplied, never derived.
type ResourceSpec struct {
	Limits       ResourceBand
	Reservations *ResourceBand
}

// ResourceBand is a cpu/memory pair in compose notation ("2.0", "512M").
type ResourceBand struct {
	CPUs   string
	Memory string
}

// HealthCheck is a container health probe definition.
type HealthCheck struct {
	Test        []string
	Interval    string
	Timeout     string
	Retries     int
	StartPeriod string
}

// =============================================================================
// Resilience policies
// =============================================================================

// RetryPolicy configures the reverse-proxy retry middleware. Enabled is
// tri-state so that an explicit false can win over tier defaults.
type RetryPolicy struct {
	Enabled  *bool
	Attempts int
	Interval string
}

// RateLimitPolicy configures the reverse-proxy rate-limit middleware.
type RateLimitPolicy struct {
	Enabled *bool
	Average int
	Burst   int
}
