package dispatch

import (
	"fmt"

	"github.com/steveyegge/argcheck/internal/verify"
)

// splitConfig pops the "filters" key out of raw (if present) and parses it
// into a verify.RoleFilters, returning the remainder as the verifier-specific
// raw config.
func splitConfig(raw map[string]any) (verify.RoleFilters, map[string]any, error) {
	rest := make(map[string]any, len(raw))
	for k, v := range raw {
		if k != "filters" {
			rest[k] = v
		}
	}
	filtersRaw, ok := raw["filters"]
	if !ok {
		return verify.RoleFilters{}, rest, nil
	}
	asMap, ok := filtersRaw.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("config key \"filters\" must be an object keyed by role")
	}
	out := verify.RoleFilters{}
	for role, criteriaRaw := range asMap {
		list, ok := criteriaRaw.([]any)
		if !ok {
			return nil, nil, fmt.Errorf("filters.%s must be a list of criteria", role)
		}
		for _, cRaw := range list {
			cMap, ok := cRaw.(map[string]any)
			if !ok {
				return nil, nil, fmt.Errorf("filters.%s entries must be objects", role)
			}
			c := verify.Criterion{
				Key:   asString(cMap["key"]),
				Value: asString(cMap["value"]),
				Regex: asString(cMap["regex"]),
			}
			out[role] = append(out[role], c)
		}
	}
	return out, rest, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
