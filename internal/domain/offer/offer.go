// Package offer holds the canonical job-offer and CV records shared by the
// normalizers, the matching engine and analytics.
package offer

import (
	"time"

	"job-insight/internal/pkg/textnorm"
)

type Source string

const (
	SourceFranceTravail Source = "France Travail"
	SourceWTTJ          Source = "Welcome to the Jungle"
)

func (s Source) Valid() bool {
	return s == SourceFranceTravail || s == SourceWTTJ
}

// ParseSource accepts the display name or a short alias ("ft", "wttj").
func ParseSource(raw string) (Source, bool) {
	switch textnorm.Text(raw) {
	case "ft", "francetravail", "france travail", "france_travail":
		return SourceFranceTravail, true
	case "wttj", "wtj", "welcome to the jungle":
		return SourceWTTJ, true
	}
	return "", false
}

// JobOffer is a normalized offer. Skill and language fields are always sorted
// sets of normalized tokens, empty when the source lacks the concept.
type JobOffer struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Contract    string    `json:"contract_type"`
	Salary      string    `json:"salary"`
	Date        string    `json:"date"`
	Industry    string    `json:"industry"`
	Experience  string    `json:"experience"`
	Education   string    `json:"education"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Source      Source    `json:"source"`
	URL         string    `json:"url"`
	CollectedAt time.Time `json:"collected_at"`

	SkillsHardRequired []string `json:"skills_hard_required"`
	SkillsHardOptional []string `json:"skills_hard_optional"`
	SkillsSoft         []string `json:"skills_soft"`
	LanguagesRequired  []string `json:"languages_required"`
	LanguagesOptional  []string `json:"languages_optional"`
}

// Normalize re-applies the set invariant to every skill and language field.
// It is safe to call on an already normalized offer.
func (j JobOffer) Normalize() JobOffer {
	j.SkillsHardRequired = textnorm.Set(j.SkillsHardRequired)
	j.SkillsHardOptional = textnorm.Set(j.SkillsHardOptional)
	j.SkillsSoft = textnorm.Set(j.SkillsSoft)
	j.LanguagesRequired = textnorm.Set(j.LanguagesRequired)
	j.LanguagesOptional = textnorm.Set(j.LanguagesOptional)
	return j
}

// CV is the candidate side of a match. It is built per request and never
// stored.
type CV struct {
	SkillsHard textnorm.Loose       `json:"skills_hard"`
	SkillsSoft textnorm.Loose       `json:"skills_soft"`
	Languages  textnorm.Loose       `json:"languages"`
	Text       textnorm.LooseString `json:"text"`
}

// Normalize returns a CV whose lists are sorted normalized sets and whose
// text is canonicalized.
func (c CV) Normalize() CV {
	return CV{
		SkillsHard: textnorm.Set(c.SkillsHard),
		SkillsSoft: textnorm.Set(c.SkillsSoft),
		Languages:  textnorm.Set(c.Languages),
		Text:       textnorm.LooseString(textnorm.Text(c.Text)),
	}
}

// CVFromText builds a CV from comma separated form fields.
func CVFromText(hard, soft, languages, text string) CV {
	return CV{
		SkillsHard: textnorm.Split(hard),
		SkillsSoft: textnorm.Split(soft),
		Languages:  textnorm.Split(languages),
		Text:       textnorm.LooseString(text),
	}.Normalize()
}
