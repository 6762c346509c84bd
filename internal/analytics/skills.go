package analytics

import (
	"sort"

	"job-insight/internal/domain/offer"
)

const (
	DefaultEmergingMinPct = 5.0
	DefaultEmergingMaxPct = 15.0
)

// HardSkillStat counts how many offers require or merely mention a skill.
type HardSkillStat struct {
	Skill         string  `json:"skill"`
	RequiredCount int     `json:"required_count"`
	OptionalCount int     `json:"optional_count"`
	RequiredPct   float64 `json:"required_pct"`
	OptionalPct   float64 `json:"optional_pct"`
}

type SkillFrequency struct {
	Skill string  `json:"skill"`
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// SkillsReport is the skill breakdown for one source. Emerging skills are
// only computed for France Travail, the only source that distinguishes
// required from optional skills.
type SkillsReport struct {
	Source      offer.Source     `json:"source"`
	TotalOffers int              `json:"total_offers"`
	Hard        []HardSkillStat  `json:"hard_skills"`
	Soft        []SkillFrequency `json:"soft_skills"`
	Emerging    []HardSkillStat  `json:"emerging_skills"`
}

// AnalyzeSkills builds the report for offers of the given source. Offers of
// other sources are ignored.
func AnalyzeSkills(jobs []offer.JobOffer, source offer.Source) (SkillsReport, error) {
	if !source.Valid() {
		return SkillsReport{}, ErrUnknownSource
	}
	jobs = filterSource(jobs, source)

	rep := SkillsReport{
		Source:      source,
		TotalOffers: len(jobs),
		Hard:        HardSkills(jobs),
		Soft:        SoftSkills(jobs),
		Emerging:    []HardSkillStat{},
	}
	if source == offer.SourceFranceTravail {
		rep.Emerging = EmergingSkills(rep.Hard, DefaultEmergingMinPct, DefaultEmergingMaxPct)
	}
	return rep, nil
}

// HardSkills counts required and optional hard skills across offers, sorted
// by required share then optional share, both descending.
func HardSkills(jobs []offer.JobOffer) []HardSkillStat {
	req := map[string]int{}
	opt := map[string]int{}
	for _, j := range jobs {
		for _, s := range j.SkillsHardRequired {
			req[s]++
		}
		for _, s := range j.SkillsHardOptional {
			opt[s]++
		}
	}

	all := map[string]struct{}{}
	for s := range req {
		all[s] = struct{}{}
	}
	for s := range opt {
		all[s] = struct{}{}
	}

	out := make([]HardSkillStat, 0, len(all))
	for s := range all {
		out = append(out, HardSkillStat{
			Skill:         s,
			RequiredCount: req[s],
			OptionalCount: opt[s],
			RequiredPct:   pct(req[s], len(jobs)),
			OptionalPct:   pct(opt[s], len(jobs)),
		})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].RequiredPct != out[b].RequiredPct {
			return out[a].RequiredPct > out[b].RequiredPct
		}
		if out[a].OptionalPct != out[b].OptionalPct {
			return out[a].OptionalPct > out[b].OptionalPct
		}
		return out[a].Skill < out[b].Skill
	})
	return out
}

// SoftSkills counts soft skills across offers, most frequent first.
func SoftSkills(jobs []offer.JobOffer) []SkillFrequency {
	counts := map[string]int{}
	for _, j := range jobs {
		for _, s := range j.SkillsSoft {
			counts[s]++
		}
	}
	return frequencies(counts, len(jobs))
}

// EmergingSkills keeps hard skills whose required share lies in
// [minPct, maxPct]: common enough to matter, not yet mainstream.
func EmergingSkills(hard []HardSkillStat, minPct, maxPct float64) []HardSkillStat {
	out := make([]HardSkillStat, 0)
	for _, h := range hard {
		if h.RequiredPct >= minPct && h.RequiredPct <= maxPct {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].RequiredPct > out[b].RequiredPct })
	return out
}

func frequencies(counts map[string]int, total int) []SkillFrequency {
	out := make([]SkillFrequency, 0, len(counts))
	for s, c := range counts {
		out = append(out, SkillFrequency{Skill: s, Count: c, Pct: pct(c, total)})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Skill < out[b].Skill
	})
	return out
}

func filterSource(jobs []offer.JobOffer, source offer.Source) []offer.JobOffer {
	out := make([]offer.JobOffer, 0, len(jobs))
	for _, j := range jobs {
		if j.Source == source {
			out = append(out, j)
		}
	}
	return out
}
