package dto

import (
	"job-insight/internal/domain/matching"
	"job-insight/internal/domain/offer"
)

// MatchOptionsRequest overrides the server defaults field by field. A nil
// field keeps the default; a non-nil weights map replaces the defaults as a
// whole.
type MatchOptionsRequest struct {
	UseSemanticSkills      *bool              `json:"use_semantic_skills"`
	SkillThreshold         *float64           `json:"skill_threshold" validate:"omitempty,min=0,max=1"`
	UseDescriptionSemantic *bool              `json:"use_description_semantic"`
	Weights                map[string]float64 `json:"weights" validate:"omitempty,dive,min=0"`
}

func (r *MatchOptionsRequest) Apply(def matching.Options) matching.Options {
	out := def
	if r == nil {
		return out
	}
	if r.UseSemanticSkills != nil {
		out.UseSemanticSkills = *r.UseSemanticSkills
	}
	if r.SkillThreshold != nil {
		out.SkillThreshold = *r.SkillThreshold
	}
	if r.UseDescriptionSemantic != nil {
		out.UseDescriptionSemantic = *r.UseDescriptionSemantic
	}
	if r.Weights != nil {
		out.Weights = matching.Weights(r.Weights)
	}
	return out
}

// MatchOfferRequest scores a CV against one stored offer. CV list fields that
// are not JSON arrays decode as empty lists.
type MatchOfferRequest struct {
	CV      offer.CV             `json:"cv"`
	Options *MatchOptionsRequest `json:"options"`
}

type MatchMarketRequest struct {
	CV       offer.CV             `json:"cv"`
	Options  *MatchOptionsRequest `json:"options"`
	MinScore *float64             `json:"min_score" validate:"omitempty,min=0,max=100"`
	Source   string               `json:"source"`
	Limit    int                  `json:"limit" validate:"omitempty,min=1,max=1000"`
}
