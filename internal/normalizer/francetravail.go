// Package normalizer adapts raw records from each job source into the
// canonical offer.JobOffer.
package normalizer

import (
	"encoding/json"
	"strings"
	"time"

	"job-insight/internal/domain/offer"
	"job-insight/internal/pkg/textnorm"
)

// Requirement levels used by France Travail on skills and languages.
const (
	ftRequired = "E"
	ftOptional = "S"
)

// FTRecord is one offer as returned by the France Travail search API. Only
// the fields the canonical record uses are declared.
type FTRecord struct {
	ID                       textnorm.LooseString `json:"id"`
	Intitule                 textnorm.LooseString `json:"intitule"`
	Description              textnorm.LooseString `json:"description"`
	DateCreation             textnorm.LooseString `json:"dateCreation"`
	LieuTravail              FTLieuTravail        `json:"lieuTravail"`
	Entreprise               FTEntreprise         `json:"entreprise"`
	TypeContrat              textnorm.LooseString `json:"typeContrat"`
	TypeContratLibelle       textnorm.LooseString `json:"typeContratLibelle"`
	ExperienceLibelle        textnorm.LooseString `json:"experienceLibelle"`
	SecteurActiviteLibelle   textnorm.LooseString `json:"secteurActiviteLibelle"`
	Formations               FTList[FTFormation]  `json:"formations"`
	Competences              FTList[FTLabel]      `json:"competences"`
	Langues                  FTList[FTLabel]      `json:"langues"`
	QualitesProfessionnelles FTList[FTLabel]      `json:"qualitesProfessionnelles"`
	Salaire                  FTSalaire            `json:"salaire"`
	OrigineOffre             FTOrigine            `json:"origineOffre"`
}

type FTLieuTravail struct {
	Libelle    textnorm.LooseString `json:"libelle"`
	CodePostal textnorm.LooseString `json:"codePostal"`
	Latitude   *float64             `json:"latitude"`
	Longitude  *float64             `json:"longitude"`
}

type FTEntreprise struct {
	Nom textnorm.LooseString `json:"nom"`
}

type FTSalaire struct {
	Libelle textnorm.LooseString `json:"libelle"`
}

type FTOrigine struct {
	URLOrigine textnorm.LooseString `json:"urlOrigine"`
}

type FTLabel struct {
	Code     string `json:"code"`
	Libelle  string `json:"libelle"`
	Exigence string `json:"exigence"`
}

type FTFormation struct {
	DomaineLibelle string `json:"domaineLibelle"`
	NiveauLibelle  string `json:"niveauLibelle"`
	Commentaire    string `json:"commentaire"`
	Exigence       string `json:"exigence"`
}

// FTList decodes a JSON array of objects, skipping elements that do not fit
// T. Any non-array value decodes to an empty list.
type FTList[T any] []T

func (l *FTList[T]) UnmarshalJSON(b []byte) error {
	*l = nil
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	for _, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			continue
		}
		*l = append(*l, v)
	}
	return nil
}

// FromFranceTravail maps one API record. Skills and languages are split on
// their exigence flag; labels without a recognized flag are dropped.
func FromFranceTravail(r FTRecord, collectedAt time.Time) offer.JobOffer {
	hardReq, hardOpt := splitExigence(r.Competences)
	langReq, langOpt := splitExigence(r.Langues)

	soft := make([]string, 0, len(r.QualitesProfessionnelles))
	for _, q := range r.QualitesProfessionnelles {
		soft = append(soft, q.Libelle)
	}

	return offer.JobOffer{
		ID:                 strings.TrimSpace(r.ID.String()),
		Title:              strings.TrimSpace(r.Intitule.String()),
		Description:        strings.TrimSpace(r.Description.String()),
		Company:            strings.TrimSpace(r.Entreprise.Nom.String()),
		Location:           strings.TrimSpace(r.LieuTravail.Libelle.String()),
		Contract:           strings.TrimSpace(r.TypeContratLibelle.String()),
		Salary:             strings.TrimSpace(r.Salaire.Libelle.String()),
		Date:               strings.TrimSpace(r.DateCreation.String()),
		Industry:           strings.TrimSpace(r.SecteurActiviteLibelle.String()),
		Experience:         strings.TrimSpace(r.ExperienceLibelle.String()),
		Education:          formationsText(r.Formations),
		Latitude:           r.LieuTravail.Latitude,
		Longitude:          r.LieuTravail.Longitude,
		Source:             offer.SourceFranceTravail,
		URL:                strings.TrimSpace(r.OrigineOffre.URLOrigine.String()),
		CollectedAt:        collectedAt,
		SkillsHardRequired: hardReq,
		SkillsHardOptional: hardOpt,
		SkillsSoft:         soft,
		LanguagesRequired:  langReq,
		LanguagesOptional:  langOpt,
	}.Normalize()
}

func FranceTravail(records []FTRecord, collectedAt time.Time) []offer.JobOffer {
	out := make([]offer.JobOffer, 0, len(records))
	for _, r := range records {
		out = append(out, FromFranceTravail(r, collectedAt))
	}
	return out
}

func splitExigence(items []FTLabel) (required, optional []string) {
	required = make([]string, 0)
	optional = make([]string, 0)
	for _, it := range items {
		switch strings.ToUpper(strings.TrimSpace(it.Exigence)) {
		case ftRequired:
			required = append(required, it.Libelle)
		case ftOptional:
			optional = append(optional, it.Libelle)
		}
	}
	return required, optional
}

func formationsText(fs []FTFormation) string {
	parts := make([]string, 0, len(fs))
	for _, f := range fs {
		var words []string
		for _, s := range []string{f.NiveauLibelle, f.DomaineLibelle, f.Commentaire} {
			if s = strings.TrimSpace(s); s != "" {
				words = append(words, s)
			}
		}
		if len(words) > 0 {
			parts = append(parts, strings.Join(words, " - "))
		}
	}
	return strings.Join(parts, "; ")
}
