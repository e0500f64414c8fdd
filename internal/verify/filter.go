package verify

import (
	"fmt"
	"regexp"
)

// Criterion is one metadata match clause in a filter role's list (config
// key "filters"): key must equal value, or, when Regex is set, key's
// metadata value must match the given pattern.
type Criterion struct {
	Key   string
	Value string
	Regex string
}

// Matches reports whether vd's metadata satisfies this criterion.
func (c Criterion) Matches(vd *PrimaryData) (bool, error) {
	got, present := vd.Metadata[c.Key]
	if c.Regex != "" {
		re, err := regexp.Compile(c.Regex)
		if err != nil {
			return false, fmt.Errorf("compiling filter regex %q for key %q: %w", c.Regex, c.Key, err)
		}
		return present && re.MatchString(got), nil
	}
	return present && got == c.Value, nil
}

// RoleFilters is the parsed form of the request-level "filters" config key:
// role name -> list of criteria, all of which must match.
type RoleFilters map[string][]Criterion

// BuildVDFilter compiles a role's criterion list into a VDFilter. A role
// with no criteria matches every PrimaryData of the applicable dtype (the
// builder still restricts dtype separately via Handle's own dtype check).
// A criterion whose regex fails to compile never matches, so the filter
// rejects every PrimaryData; the returned error is always nil.
func (rf RoleFilters) BuildVDFilter(role string) (VDFilter, error) {
	criteria := rf[role]
	if len(criteria) == 0 {
		return AlwaysTrue, nil
	}
	return func(vd *PrimaryData) bool {
		for _, c := range criteria {
			matched, err := c.Matches(vd)
			if err != nil || !matched {
				return false
			}
		}
		return true
	}, nil
}

// Validate reports the roles present in rf that are not in allowed, i.e.
// filter roles outside the verifier's declared allowed_filter_roles.
func (rf RoleFilters) Validate(allowed []string) []string {
	allowedSet := map[string]bool{}
	for _, a := range allowed {
		allowedSet[a] = true
	}
	var bad []string
	for role := range rf {
		if !allowedSet[role] {
			bad = append(bad, role)
		}
	}
	return bad
}
