package config

import (
	"strings"

	"github.com/artpar/stackgen/internal/core/domain"
)

// =============================================================================
// Shared Fragment Parsing
// =============================================================================
//
// Both input forms carry the same per-service sub-structures (secrets,
// volumes, resources, health checks, resilience policies); the parsers
// here normalize them into domain types.

// parseSecret normalizes one secret entry: either a bare name or a
// detailed object {source|name, target, mode, uid, gid}.
func parseSecret(field string, v any) (domain.SecretDeclaration, error) {
	if name, ok := asString(v); ok {
		if name == "" {
			return domain.SecretDeclaration{}, NewLoadError(field, "secret name cannot be empty", ErrMissingField)
		}
		return domain.SecretDeclaration{Source: name}, nil
	}

	m, ok := asMap(v)
	if !ok {
		return domain.SecretDeclaration{}, NewLoadError(field, "secret must be a name or an object", ErrShapeMismatch)
	}

	decl := domain.SecretDeclaration{}
	if s, ok := asString(m["source"]); ok {
		decl.Source = s
	} else if s, ok := asString(m["name"]); ok {
		decl.Source = s
	}
	if decl.Source == "" {
		return domain.SecretDeclaration{}, NewLoadError(field, "secret object must have source or name", ErrMissingField)
	}

	if t, ok := asString(m["target"]); ok {
		decl.Target = t
	}
	if mode, ok := asMode(m["mode"]); ok {
		decl.Mode = mode
	}
	if uid, ok := stringify(m["uid"]); ok {
		decl.UID = uid
	}
	if gid, ok := stringify(m["gid"]); ok {
		decl.GID = gid
	}
	return decl, nil
}

// parseVolume normalizes one volume entry. Strings are mount shorthand:
// "name:/path" is a named volume, anything starting with "/", "./" or
// "~" is an anonymous bind mount kept verbatim. Objects carry
// {name, path, driver, backup, shared, type}.
func parseVolume(field string, v any) (domain.VolumeSpec, error) {
	if s, ok := asString(v); ok {
		if s == "" {
			return domain.VolumeSpec{}, NewLoadError(field, "volume cannot be empty", ErrMissingField)
		}
		if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "./") || strings.HasPrefix(s, "~") {
			return domain.VolumeSpec{Path: s}, nil
		}
		name, path, found := strings.Cut(s, ":")
		if !found || name == "" {
			return domain.VolumeSpec{Path: s}, nil
		}
		return domain.VolumeSpec{Name: name, Path: path, Backup: true}, nil
	}

	m, ok := asMap(v)
	if !ok {
		return domain.VolumeSpec{}, NewLoadError(field, "volume must be a string or an object", ErrShapeMismatch)
	}

	vol := domain.VolumeSpec{Backup: true}
	if name, ok := asString(m["name"]); ok {
		vol.Name = name
	}
	if path, ok := asString(m["path"]); ok {
		vol.Path = path
	}
	if driver, ok := asString(m["driver"]); ok {
		vol.Driver = driver
	}
	if backup, ok := asBool(m["backup"]); ok {
		vol.Backup = backup
	}
	if shared, ok := asBool(m["shared"]); ok {
		vol.Shared = shared
	}
	// Bind mounts are never registered as named volumes.
	if t, ok := asString(m["type"]); ok && t == "bind" {
		return domain.VolumeSpec{Path: vol.Name + ":" + vol.Path}, nil
	}
	if vol.Name == "" && vol.Path == "" {
		return domain.VolumeSpec{}, NewLoadError(field, "volume object must have name or path", ErrMissingField)
	}
	return vol, nil
}

// parseResources normalizes {limits: {cpus, memory}, reservations: ...}.
// Reservations are only kept when explicitly supplied.
func parseResources(field string, v any) (*domain.ResourceSpec, error) {
	m, ok := asMap(v)
	if !ok {
		return nil, NewLoadError(field, "resources must be an object", ErrShapeMismatch)
	}

	spec := &domain.ResourceSpec{}
	if limits, ok := asMap(m["limits"]); ok {
		spec.Limits = parseResourceBand(limits)
	}
	if reservations, ok := asMap(m["reservations"]); ok {
		band := parseResourceBand(reservations)
		spec.Reservations = &band
	}
	return spec, nil
}

func parseResourceBand(m map[string]any) domain.ResourceBand {
	band := domain.ResourceBand{}
	if cpus, ok := stringify(m["cpus"]); ok {
		band.CPUs = cpus
	}
	if mem, ok := asString(m["memory"]); ok {
		band.Memory = mem
	}
	return band
}

// parseHealthCheck normalizes an advanced health-check override.
func parseHealthCheck(field string, v any) (*domain.HealthCheck, error) {
	m, ok := asMap(v)
	if !ok {
		return nil, NewLoadError(field, "health_check must be an object", ErrShapeMismatch)
	}

	hc := &domain.HealthCheck{}
	if test, ok := asStringSlice(m["test"]); ok {
		hc.Test = test
	}
	if interval, ok := asString(m["interval"]); ok {
		hc.Interval = interval
	}
	if timeout, ok := asString(m["timeout"]); ok {
		hc.Timeout = timeout
	}
	if retries, ok := asInt(m["retries"]); ok {
		hc.Retries = retries
	}
	if start, ok := asString(m["start_period"]); ok {
		hc.StartPeriod = start
	}
	return hc, nil
}

// parseRetry accepts boolean toggles ("retry": false) as well as policy
// objects ({attempts, interval}); an object implies enabled.
func parseRetry(field string, v any) (*domain.RetryPolicy, error) {
	if b, ok := asBool(v); ok {
		return &domain.RetryPolicy{Enabled: boolPtr(b)}, nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil, NewLoadError(field, "retry must be a boolean or an object", ErrShapeMismatch)
	}
	policy := &domain.RetryPolicy{Enabled: boolPtr(true)}
	if attempts, ok := asInt(m["attempts"]); ok {
		policy.Attempts = attempts
	}
	if interval, ok := asString(m["interval"]); ok {
		policy.Interval = interval
	}
	return policy, nil
}

// parseRateLimit mirrors parseRetry for the rate-limit middleware.
func parseRateLimit(field string, v any) (*domain.RateLimitPolicy, error) {
	if b, ok := asBool(v); ok {
		return &domain.RateLimitPolicy{Enabled: boolPtr(b)}, nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil, NewLoadError(field, "rate_limit must be a boolean or an object", ErrShapeMismatch)
	}
	policy := &domain.RateLimitPolicy{Enabled: boolPtr(true)}
	if avg, ok := asInt(m["average"]); ok {
		policy.Average = avg
	}
	if burst, ok := asInt(m["burst"]); ok {
		policy.Burst = burst
	}
	return policy, nil
}
