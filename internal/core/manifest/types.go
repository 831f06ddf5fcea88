package manifest

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Document - Main Output Type
// =============================================================================

// ComposeVersion is the compose file format version emitted for Swarm
// deployments.
const ComposeVersion = "3.8"

// Document is the assembled manifest: the ordered services mapping plus
// the three global registries.
type Document struct {
	Version  string                   `yaml:"version"`
	Services *ServiceMap              `yaml:"services"`
	Networks map[string]NetworkConfig `yaml:"networks"`
	Secrets  map[string]ExternalRef   `yaml:"secrets,omitempty"`
	Volumes  map[string]VolumeConfig  `yaml:"volumes,omitempty"`
}

// Render serializes the document to YAML.
func (d *Document) Render() ([]byte, error) {
	return yaml.Marshal(d)
}

// =============================================================================
// Ordered Services Mapping
// =============================================================================

// ServiceMap is a mapping of service name to rendered fragment that
// marshals in insertion order.
type ServiceMap struct {
	names []string
	items map[string]*ServiceConfig
}

// NewServiceMap returns an empty ordered mapping.
func NewServiceMap() *ServiceMap {
	return &ServiceMap{items: make(map[string]*ServiceConfig)}
}

// Add appends a service fragment; re-adding a name overwrites in place.
func (m *ServiceMap) Add(name string, cfg *ServiceConfig) {
	if _, exists := m.items[name]; !exists {
		m.names = append(m.names, name)
	}
	m.items[name] = cfg
}

// Get returns the fragment for a name, or nil.
func (m *ServiceMap) Get(name string) *ServiceConfig {
	return m.items[name]
}

// Names returns service names in insertion order.
func (m *ServiceMap) Names() []string {
	return append([]string(nil), m.names...)
}

// Len returns the number of services.
func (m *ServiceMap) Len() int {
	return len(m.names)
}

// MarshalYAML renders the mapping in insertion order.
func (m *ServiceMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, name := range m.names {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
		value := &yaml.Node{}
		if err := value.Encode(m.items[name]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

// =============================================================================
// Service Fragment
// =============================================================================

// ServiceConfig is one rendered service entry.
type ServiceConfig struct {
	Image       string             `yaml:"image"`
	Networks    []string           `yaml:"networks"`
	Environment []string           `yaml:"environment"`
	Secrets     []SecretMount      `yaml:"secrets,omitempty"`
	Volumes     []string           `yaml:"volumes,omitempty"`
	Deploy      DeployConfig       `yaml:"deploy"`
	HealthCheck *HealthCheckConfig `yaml:"healthcheck,omitempty"`
	Logging     *LoggingConfig     `yaml:"logging,omitempty"`
}

// NamedVolumes extracts the registry names referenced by the fragment's
// mount strings. Bind mounts and anonymous paths carry no reference.
func (s *ServiceConfig) NamedVolumes() []string {
	var names []string
	for _, mount := range s.Volumes {
		if strings.HasPrefix(mount, "/") || strings.HasPrefix(mount, "./") || strings.HasPrefix(mount, "~") {
			continue
		}
		name, _, found := strings.Cut(mount, ":")
		if found && name != "" {
			names = append(names, name)
		}
	}
	return names
}

// SecretMount is one service-level secret reference. A bare reference
// marshals as a plain scalar, a detailed one as the long form.
type SecretMount struct {
	Source string  `yaml:"source"`
	Target string  `yaml:"target,omitempty"`
	Mode   *uint32 `yaml:"mode,omitempty"`
	UID    string  `yaml:"uid,omitempty"`
	GID    string  `yaml:"gid,omitempty"`
}

// secretMountLong avoids marshal recursion for the long form.
type secretMountLong struct {
	Source string  `yaml:"source"`
	Target string  `yaml:"target,omitempty"`
	Mode   *uint32 `yaml:"mode,omitempty"`
	UID    string  `yaml:"uid,omitempty"`
	GID    string  `yaml:"gid,omitempty"`
}

// MarshalYAML renders bare references as scalars.
func (s SecretMount) MarshalYAML() (any, error) {
	if s.Target == "" && s.Mode == nil && s.UID == "" && s.GID == "" {
		return s.Source, nil
	}
	return secretMountLong(s), nil
}

// =============================================================================
// Deploy Block
// =============================================================================

// DeployConfig is the Swarm deploy block of a service fragment.
type DeployConfig struct {
	Replicas       int                  `yaml:"replicas"`
	Labels         []string             `yaml:"labels,omitempty"`
	Placement      *PlacementConfig     `yaml:"placement,omitempty"`
	UpdateConfig   *UpdateConfig        `yaml:"update_config,omitempty"`
	RollbackConfig *UpdateConfig        `yaml:"rollback_config,omitempty"`
	RestartPolicy  *RestartPolicyConfig `yaml:"restart_policy,omitempty"`
	Resources      *ResourcesConfig     `yaml:"resources,omitempty"`
}

// PlacementConfig restricts which nodes may run a service's replicas.
type PlacementConfig struct {
	Constraints []string `yaml:"constraints"`
}

// UpdateConfig shapes the Swarm update (or rollback) behavior.
type UpdateConfig struct {
	Parallelism     int     `yaml:"parallelism"`
	Delay           string  `yaml:"delay"`
	FailureAction   string  `yaml:"failure_action"`
	Monitor         string  `yaml:"monitor"`
	MaxFailureRatio float64 `yaml:"max_failure_ratio"`
	Order           string  `yaml:"order,omitempty"`
}

// RestartPolicyConfig is the container restart policy.
type RestartPolicyConfig struct {
	Condition   string `yaml:"condition"`
	Delay       string `yaml:"delay"`
	MaxAttempts int    `yaml:"max_attempts"`
	Window      string `yaml:"window"`
}

// ResourcesConfig carries limits and (only when explicitly supplied)
// reservations.
type ResourcesConfig struct {
	Limits       *ResourceBandConfig `yaml:"limits,omitempty"`
	Reservations *ResourceBandConfig `yaml:"reservations,omitempty"`
}

// ResourceBandConfig is a cpu/memory pair.
type ResourceBandConfig struct {
	CPUs   string `yaml:"cpus"`
	Memory string `yaml:"memory"`
}

// =============================================================================
// Health & Logging
// =============================================================================

// HealthCheckConfig is the container health probe.
type HealthCheckConfig struct {
	Test        []string `yaml:"test"`
	Interval    string   `yaml:"interval"`
	Timeout     string   `yaml:"timeout"`
	Retries     int      `yaml:"retries"`
	StartPeriod string   `yaml:"start_period"`
}

// LoggingConfig is the json-file logging block.
type LoggingConfig struct {
	Driver  string            `yaml:"driver"`
	Options map[string]string `yaml:"options"`
}

// =============================================================================
// Registries
// =============================================================================

// NetworkConfig is one entry of the networks registry.
type NetworkConfig struct {
	Driver     string            `yaml:"driver,omitempty"`
	External   bool              `yaml:"external,omitempty"`
	Internal   bool              `yaml:"internal,omitempty"`
	DriverOpts map[string]string `yaml:"driver_opts,omitempty"`
}

// ExternalRef marks a secret as pre-provisioned in the target cluster.
type ExternalRef struct {
	External bool `yaml:"external"`
}

// VolumeConfig is one entry of the volumes registry.
type VolumeConfig struct {
	Driver string            `yaml:"driver"`
	Labels map[string]string `yaml:"labels,omitempty"`
}
