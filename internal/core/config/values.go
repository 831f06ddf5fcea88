package config

import (
	"fmt"
	"strconv"
)

// =============================================================================
// JSON Value Helpers
// =============================================================================
//
// Input is decoded into untyped values (encoding/json), so every field
// read goes through these small coercion helpers. Numbers arrive as
// float64; several fields (ports, modes, replicas) are accepted both as
// numbers and as strings because both appear in the wild.

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// asMode parses a secret file mode. JSON has no octal literals, so modes
// arrive either as decimal numbers (256 == 0400) or as octal strings
// ("0400").
func asMode(v any) (uint32, bool) {
	switch n := v.(type) {
	case float64:
		return uint32(n), true
	case string:
		m, err := strconv.ParseUint(n, 8, 32)
		if err != nil {
			return 0, false
		}
		return uint32(m), true
	default:
		return 0, false
	}
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asStringSlice(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// asStringMap coerces a JSON object into map[string]string, stringifying
// scalar values (environment blocks routinely mix strings and numbers).
func asStringMap(v any) (map[string]string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		switch s := val.(type) {
		case string:
			out[k] = s
		case float64:
			out[k] = strconv.FormatFloat(s, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(s)
		default:
			return nil, false
		}
	}
	return out, true
}

// stringify renders a scalar the way asStringMap does, for single values
// (cpu counts accept both 2 and "2.0").
func stringify(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	default:
		return "", false
	}
}

func boolPtr(b bool) *bool { return &b }

func fieldAt(prefix string, idx int, name string) string {
	return fmt.Sprintf("%s[%d].%s", prefix, idx, name)
}
