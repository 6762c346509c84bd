package normalizer

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"job-insight/internal/domain/offer"
	"job-insight/internal/pkg/textnorm"
)

// WTTJRecord is one offer collected from the job board. The board has no
// notion of required versus optional skills.
type WTTJRecord struct {
	Title                 string         `json:"title"`
	Link                  string         `json:"link"`
	Company               string         `json:"company"`
	Date                  string         `json:"date"`
	Contract              string         `json:"contract"`
	ContractNorm          string         `json:"contract_norm"`
	Location              string         `json:"location"`
	Salary                string         `json:"salary"`
	Experience            string         `json:"experience"`
	ExperienceYears       *int           `json:"experience_years"`
	Education             string         `json:"education"`
	Industry              string         `json:"industry"`
	CompanyInfo           string         `json:"company_info"`
	Description           string         `json:"description"`
	CompetencesTechniques textnorm.Loose `json:"competences_techniques"`
	SavoirFaire           textnorm.Loose `json:"savoir_faire"`
	SavoirEtre            textnorm.Loose `json:"savoir_etre"`
	Langues               textnorm.Loose `json:"langues"`
}

// FromWTTJ maps one board record. Technical skills and know-how both count as
// required hard skills; listed languages are optional.
func FromWTTJ(r WTTJRecord, collectedAt time.Time) offer.JobOffer {
	hard := make([]string, 0, len(r.CompetencesTechniques)+len(r.SavoirFaire))
	hard = append(hard, r.CompetencesTechniques...)
	hard = append(hard, r.SavoirFaire...)

	return offer.JobOffer{
		ID:                 StableID(r.Link),
		Title:              strings.TrimSpace(r.Title),
		Description:        strings.TrimSpace(r.Description),
		Company:            strings.TrimSpace(r.Company),
		Location:           strings.TrimSpace(r.Location),
		Contract:           strings.TrimSpace(r.Contract),
		Salary:             strings.TrimSpace(r.Salary),
		Date:               strings.TrimSpace(r.Date),
		Industry:           strings.TrimSpace(r.Industry),
		Experience:         strings.TrimSpace(r.Experience),
		Education:          strings.TrimSpace(r.Education),
		Source:             offer.SourceWTTJ,
		URL:                strings.TrimSpace(r.Link),
		CollectedAt:        collectedAt,
		SkillsHardRequired: hard,
		SkillsHardOptional: []string{},
		SkillsSoft:         r.SavoirEtre.Strings(),
		LanguagesRequired:  []string{},
		LanguagesOptional:  r.Langues.Strings(),
	}.Normalize()
}

func WTTJ(records []WTTJRecord, collectedAt time.Time) []offer.JobOffer {
	out := make([]offer.JobOffer, 0, len(records))
	for _, r := range records {
		out = append(out, FromWTTJ(r, collectedAt))
	}
	return out
}

// StableID derives an identifier from an offer URL so that re-collecting the
// same page yields the same id.
func StableID(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	h := sha1.Sum([]byte(u))
	return "urlsha1-" + hex.EncodeToString(h[:])
}
