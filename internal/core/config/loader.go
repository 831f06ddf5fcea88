package config

import (
	"encoding/json"
	"strings"

	"github.com/artpar/stackgen/internal/core/domain"
)

// =============================================================================
// Input
// =============================================================================

// Input is the canonical output of the loader: an ordered list of service
// records plus document-wide globals. Order follows the input so that
// generated manifests diff cleanly between runs.
type Input struct {
	Services []domain.ServiceSpec
	Globals  domain.Globals
}

// DefaultGlobals returns the baseline document settings used when the
// input does not override them.
func DefaultGlobals() domain.Globals {
	return domain.Globals{
		Tier:               domain.TierDev,
		FQDN:               "example.com",
		Replicas:           1,
		HealthChecks:       true,
		ResourceLimits:     true,
		VolumeDir:          "/data",
		EnableLogging:      true,
		DeploymentStrategy: domain.StrategyRolling,
	}
}

// =============================================================================
// Loading
// =============================================================================

// Load parses a JSON service description in either supported shape and
// produces the canonical Input. This is a pure function - no I/O.
func Load(raw []byte) (*Input, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return nil, ErrEmptyInput
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, NewLoadError("", err.Error(), ErrInvalidJSON)
	}

	switch v := value.(type) {
	case []any:
		return loadArrayForm(v)
	case map[string]any:
		return loadLegacyForm(v)
	default:
		return nil, NewLoadError("", "input must be an array of services or a legacy object", ErrShapeMismatch)
	}
}

// =============================================================================
// Array Form
// =============================================================================

// arrayGlobalKeys are the keys that, when present on any array-form
// element, update document-wide globals. Last writer wins.
var arrayGlobalKeys = []string{
	"replicas", "env", "fqdn", "health_checks", "resource_limits",
	"volume_persistence", "volume_dir", "enable_retry", "enable_rate_limit",
	"enable_monitoring", "enable_network_separation", "deployment_strategy",
	"use_secrets", "enable_logging",
}

func loadArrayForm(items []any) (*Input, error) {
	if len(items) == 0 {
		return nil, NewLoadError("", "service array is empty", ErrEmptyInput)
	}

	in := &Input{
		Services: make([]domain.ServiceSpec, 0, len(items)),
		Globals:  DefaultGlobals(),
	}

	seen := make(map[string]bool, len(items))
	for i, item := range items {
		m, ok := asMap(item)
		if !ok {
			return nil, NewLoadError(fieldAt("services", i, ""), "service entry must be an object", ErrShapeMismatch)
		}

		svc, err := parseArrayService(i, m)
		if err != nil {
			return nil, err
		}
		if seen[svc.Name] {
			return nil, NewLoadError(fieldAt("services", i, "service_name"), "duplicate service name "+svc.Name, ErrShapeMismatch)
		}
		seen[svc.Name] = true

		applyGlobalKeys(m, &in.Globals)
		in.Services = append(in.Services, svc)
	}

	return in, nil
}

func parseArrayService(idx int, m map[string]any) (domain.ServiceSpec, error) {
	name, ok := asString(m["service_name"])
	if !ok || name == "" {
		return domain.ServiceSpec{}, NewLoadError(fieldAt("services", idx, "service_name"), "each service must have a service_name", ErrMissingField)
	}
	image, ok := asString(m["image"])
	if !ok || image == "" {
		return domain.ServiceSpec{}, NewLoadError(fieldAt("services", idx, "image"), "service "+name+" must have an image", ErrMissingField)
	}

	svc := domain.ServiceSpec{Name: name, Image: image}
	field := func(key string) string { return fieldAt("services", idx, key) }

	if expose, ok := asBool(m["expose"]); ok {
		svc.Expose = boolPtr(expose)
	}
	if port, ok := asInt(m["port"]); ok {
		svc.Port = port
	}
	if port, ok := asInt(m["internal_port"]); ok {
		svc.InternalPort = port
	}
	if dom, ok := asString(m["domain"]); ok {
		svc.Domain = dom
	}
	if replicas, ok := asInt(m["replicas"]); ok {
		svc.Replicas = replicas
	}
	if env, ok := asStringMap(m["environment"]); ok {
		svc.Environment = env
	}
	if networks, ok := asStringSlice(m["networks"]); ok {
		svc.Networks = networks
	}
	if constraints, ok := asStringSlice(m["constraints"]); ok {
		svc.Constraints = constraints
	}
	if url, ok := asString(m["health_url"]); ok {
		svc.HealthPath = url
	}
	if path, ok := asString(m["metrics_path"]); ok {
		svc.MetricsPath = path
	}
	if use, ok := asBool(m["use_secrets"]); ok {
		svc.UseSecrets = boolPtr(use)
	}
	if mon, ok := asBool(m["monitoring"]); ok {
		svc.Monitoring = boolPtr(mon)
	}
	if strategy, ok := asString(m["deployment_strategy"]); ok {
		svc.DeploymentStrategy = domain.ParseStrategy(strategy)
	}

	if raw, present := m["secrets"]; present {
		items, ok := asSlice(raw)
		if !ok {
			return domain.ServiceSpec{}, NewLoadError(field("secrets"), "secrets must be a list", ErrShapeMismatch)
		}
		for j, item := range items {
			decl, err := parseSecret(fieldAt(field("secrets"), j, ""), item)
			if err != nil {
				return domain.ServiceSpec{}, err
			}
			svc.Secrets = append(svc.Secrets, decl)
		}
	}

	if raw, present := m["volumes"]; present {
		items, ok := asSlice(raw)
		if !ok {
			return domain.ServiceSpec{}, NewLoadError(field("volumes"), "volumes must be a list", ErrShapeMismatch)
		}
		for j, item := range items {
			vol, err := parseVolume(fieldAt(field("volumes"), j, ""), item)
			if err != nil {
				return domain.ServiceSpec{}, err
			}
			svc.Volumes = append(svc.Volumes, vol)
		}
	}

	if raw, present := m["resources"]; present {
		resources, err := parseResources(field("resources"), raw)
		if err != nil {
			return domain.ServiceSpec{}, err
		}
		svc.Resources = resources
	}
	if raw, present := m["health_check"]; present {
		hc, err := parseHealthCheck(field("health_check"), raw)
		if err != nil {
			return domain.ServiceSpec{}, err
		}
		svc.HealthCheck = hc
	}
	if raw, present := m["retry"]; present {
		retry, err := parseRetry(field("retry"), raw)
		if err != nil {
			return domain.ServiceSpec{}, err
		}
		svc.Retry = retry
	}
	if raw, present := m["rate_limit"]; present {
		limit, err := parseRateLimit(field("rate_limit"), raw)
		if err != nil {
			return domain.ServiceSpec{}, err
		}
		svc.RateLimit = limit
	}

	return svc, nil
}

func applyGlobalKeys(m map[string]any, g *domain.Globals) {
	for _, key := range arrayGlobalKeys {
		v, present := m[key]
		if !present {
			continue
		}
		switch key {
		case "replicas":
			if n, ok := asInt(v); ok {
				g.Replicas = n
			}
		case "env":
			if s, ok := asString(v); ok {
				g.Tier = domain.ParseTier(s)
			}
		case "fqdn":
			if s, ok := asString(v); ok {
				g.FQDN = s
			}
		case "volume_dir":
			if s, ok := asString(v); ok {
				g.VolumeDir = s
			}
		case "deployment_strategy":
			if s, ok := asString(v); ok {
				g.DeploymentStrategy = domain.ParseStrategy(s)
			}
		case "health_checks":
			if b, ok := asBool(v); ok {
				g.HealthChecks = b
			}
		case "resource_limits":
			if b, ok := asBool(v); ok {
				g.ResourceLimits = b
			}
		case "volume_persistence":
			if b, ok := asBool(v); ok {
				g.VolumePersistence = b
			}
		case "enable_retry":
			if b, ok := asBool(v); ok {
				g.EnableRetry = b
			}
		case "enable_rate_limit":
			if b, ok := asBool(v); ok {
				g.EnableRateLimit = b
			}
		case "enable_monitoring":
			if b, ok := asBool(v); ok {
				g.EnableMonitoring = b
			}
		case "enable_network_separation":
			if b, ok := asBool(v); ok {
				g.NetworkSeparation = b
			}
		case "use_secrets":
			if b, ok := asBool(v); ok {
				g.UseSecrets = b
			}
		case "enable_logging":
			if b, ok := asBool(v); ok {
				g.EnableLogging = b
			}
		}
	}
}
