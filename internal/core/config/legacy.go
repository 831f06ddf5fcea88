package config

import (
	"github.com/artpar/stackgen/internal/core/domain"
)

// =============================================================================
// Legacy Object Form
// =============================================================================
//
// The legacy shape describes services through parallel arrays and
// per-service maps:
//
//	{
//	  "services": ["web", "api"],
//	  "images": {"web": "nginx:1", "api": "app:2"},
//	  "domains": ["web", "api"],
//	  "ports": [80, 8080],
//	  "service_envs": {"api": {"DB_HOST": "db"}},
//	  ...
//	}
//
// Positions in domains/ports/health_urls line up with positions in
// services; a non-empty array whose length disagrees is a hard error.

func loadLegacyForm(m map[string]any) (*Input, error) {
	services, ok := asStringSlice(m["services"])
	if !ok || len(services) == 0 {
		return nil, NewLoadError("services", "legacy form requires a non-empty services array", ErrMissingField)
	}

	images := stringMapOrEmpty(m["images"])
	domains, err := parallelArray(m, "domains", len(services))
	if err != nil {
		return nil, err
	}
	ports, err := parallelArray(m, "ports", len(services))
	if err != nil {
		return nil, err
	}
	healthURLs, err := parallelArray(m, "health_urls", len(services))
	if err != nil {
		return nil, err
	}

	serviceEnvs, _ := asMap(m["service_envs"])
	serviceConfigs, _ := asMap(m["service_configs"])
	serviceVolumes, _ := asMap(m["service_volumes"])
	serviceResources, _ := asMap(m["service_resources"])
	serviceSecrets, _ := asMap(m["service_secrets"])
	retryConfig, _ := asMap(m["retry_config"])
	rateLimitConfig, _ := asMap(m["rate_limit_config"])
	metricsPaths, _ := asMap(m["metrics_paths"])
	nodeConstraints, _ := asMap(m["node_constraints"])
	advancedHealth, _ := asMap(m["advanced_health"])

	in := &Input{
		Services: make([]domain.ServiceSpec, 0, len(services)),
		Globals:  DefaultGlobals(),
	}
	applyGlobalKeys(m, &in.Globals)
	if nets, ok := asStringSlice(m["external_networks"]); ok {
		in.Globals.ExternalNetworks = nets
	}

	seen := make(map[string]bool, len(services))
	for i, name := range services {
		if name == "" {
			return nil, NewLoadError(fieldAt("services", i, ""), "service name cannot be empty", ErrMissingField)
		}
		if seen[name] {
			return nil, NewLoadError(fieldAt("services", i, ""), "duplicate service name "+name, ErrShapeMismatch)
		}
		seen[name] = true

		image, ok := asString(images[name])
		if !ok || image == "" {
			return nil, NewLoadError("images."+name, "service "+name+" must have an image", ErrMissingField)
		}

		svc := domain.ServiceSpec{Name: name, Image: image}
		if i < len(domains) {
			svc.Domain = domains[i]
		}
		if i < len(ports) {
			if port, ok := asInt(ports[i]); ok {
				svc.Port = port
			}
		}
		if i < len(healthURLs) {
			svc.HealthPath = healthURLs[i]
		}
		if env, ok := asStringMap(serviceEnvs[name]); ok {
			svc.Environment = env
		}
		if path, ok := asString(metricsPaths[name]); ok {
			svc.MetricsPath = path
		}
		if constraints, ok := asStringSlice(nodeConstraints[name]); ok {
			svc.Constraints = constraints
		}

		if cfg, ok := asMap(serviceConfigs[name]); ok {
			if expose, ok := asBool(cfg["expose"]); ok {
				svc.Expose = boolPtr(expose)
			}
			if nets, ok := asStringSlice(cfg["networks"]); ok {
				svc.Networks = nets
			}
			if port, ok := asInt(cfg["internal_port"]); ok {
				svc.InternalPort = port
			}
		}

		if raw, present := serviceSecrets[name]; present {
			items, ok := asSlice(raw)
			if !ok {
				return nil, NewLoadError("service_secrets."+name, "secrets must be a list", ErrShapeMismatch)
			}
			for j, item := range items {
				decl, err := parseSecret(fieldAt("service_secrets."+name, j, ""), item)
				if err != nil {
					return nil, err
				}
				svc.Secrets = append(svc.Secrets, decl)
			}
		}

		if raw, present := serviceVolumes[name]; present {
			items, ok := asSlice(raw)
			if !ok {
				return nil, NewLoadError("service_volumes."+name, "volumes must be a list", ErrShapeMismatch)
			}
			for j, item := range items {
				vol, err := parseVolume(fieldAt("service_volumes."+name, j, ""), item)
				if err != nil {
					return nil, err
				}
				svc.Volumes = append(svc.Volumes, vol)
			}
		}

		if raw, present := serviceResources[name]; present {
			resources, err := parseResources("service_resources."+name, raw)
			if err != nil {
				return nil, err
			}
			svc.Resources = resources
		}
		if raw, present := advancedHealth[name]; present {
			hc, err := parseHealthCheck("advanced_health."+name, raw)
			if err != nil {
				return nil, err
			}
			svc.HealthCheck = hc
		}
		if raw, present := retryConfig[name]; present {
			retry, err := parseRetry("retry_config."+name, raw)
			if err != nil {
				return nil, err
			}
			svc.Retry = retry
		}
		if raw, present := rateLimitConfig[name]; present {
			limit, err := parseRateLimit("rate_limit_config."+name, raw)
			if err != nil {
				return nil, err
			}
			svc.RateLimit = limit
		}

		in.Services = append(in.Services, svc)
	}

	return in, nil
}

// parallelArray reads a positional array and enforces the zip contract:
// absent or empty is fine, any other length must equal the number of
// services.
func parallelArray(m map[string]any, key string, want int) ([]string, error) {
	raw, present := m[key]
	if !present {
		return nil, nil
	}
	items, ok := asSlice(raw)
	if !ok {
		return nil, NewLoadError(key, key+" must be an array", ErrShapeMismatch)
	}
	if len(items) == 0 {
		return nil, nil
	}
	if len(items) != want {
		return nil, NewLoadError(key, "length does not match services", ErrShapeMismatch)
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := stringify(item)
		if !ok {
			return nil, NewLoadError(fieldAt(key, i, ""), "entry must be a scalar", ErrShapeMismatch)
		}
		out[i] = s
	}
	return out, nil
}

func stringMapOrEmpty(v any) map[string]any {
	m, ok := asMap(v)
	if !ok {
		return map[string]any{}
	}
	return m
}
