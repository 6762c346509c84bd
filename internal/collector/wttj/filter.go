package wttj

import (
	"strings"

	"job-insight/internal/normalizer"
)

func (o Options) accept(r normalizer.WTTJRecord) bool {
	return locationMatch(r.Location, o.Locations) &&
		contractMatch(r.ContractNorm, o.Contracts) &&
		experienceMatch(r.ExperienceYears, o.MinYears, o.MaxYears)
}

func locationMatch(location string, filters []string) bool {
	active := false
	loc := strings.ToLower(location)
	for _, f := range filters {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		active = true
		if strings.Contains(loc, f) {
			return true
		}
	}
	return !active
}

func contractMatch(norm string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	norm = strings.ToUpper(norm)
	for _, a := range allowed {
		if strings.ToUpper(strings.TrimSpace(a)) == norm {
			return true
		}
	}
	return false
}

// experienceMatch rejects offers with unknown experience once any bound is set.
func experienceMatch(years, lo, hi *int) bool {
	if years == nil {
		return lo == nil && hi == nil
	}
	if lo != nil && *years < *lo {
		return false
	}
	if hi != nil && *years > *hi {
		return false
	}
	return true
}
