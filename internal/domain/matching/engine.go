// Package matching scores a CV against job offers by blending exact skill
// coverage, embedding-based skill matching and description similarity.
package matching

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"

	"job-insight/internal/domain/offer"
	"job-insight/internal/embedding"
)

const (
	CategoryHardRequired = "hard_required"
	CategoryHardOptional = "hard_optional"
	CategorySoft         = "soft"
	CategoryLanguages    = "languages"
	CategoryDescription  = "description"

	DefaultSkillThreshold = 0.75
	DefaultMinScore       = 40.0
)

var categories = []string{
	CategoryHardRequired,
	CategoryHardOptional,
	CategorySoft,
	CategoryLanguages,
	CategoryDescription,
}

// Weights scales each category's coverage into the final score. Weights are
// applied as given: a set that does not sum to 1 scales the score range
// accordingly, a missing category weighs 0 and an unknown one is ignored.
type Weights map[string]float64

func DefaultWeights() Weights {
	return Weights{
		CategoryHardRequired: 0.45,
		CategoryHardOptional: 0.15,
		CategorySoft:         0.10,
		CategoryLanguages:    0.10,
		CategoryDescription:  0.20,
	}
}

func (w Weights) Sum() float64 {
	var s float64
	for _, c := range categories {
		s += w[c]
	}
	return s
}

// Unknown lists the keys that name no category, sorted.
func (w Weights) Unknown() []string {
	out := make([]string, 0)
	for k := range w {
		known := false
		for _, c := range categories {
			if k == c {
				known = true
				break
			}
		}
		if !known {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func (w Weights) clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

func (w Weights) String() string {
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, w[k]))
	}
	return strings.Join(parts, ",")
}

type Options struct {
	UseSemanticSkills      bool    `json:"use_semantic_skills"`
	SkillThreshold         float64 `json:"skill_threshold"`
	UseDescriptionSemantic bool    `json:"use_description_semantic"`
	Weights                Weights `json:"weights"`
}

func DefaultOptions() Options {
	return Options{
		UseSemanticSkills:      true,
		SkillThreshold:         DefaultSkillThreshold,
		UseDescriptionSemantic: true,
		Weights:                DefaultWeights(),
	}
}

type Subscores struct {
	HardRequiredCoverage      float64 `json:"hard_required_coverage"`
	HardOptionalCoverage      float64 `json:"hard_optional_coverage"`
	SoftCoverage              float64 `json:"soft_coverage"`
	LanguagesRequiredCoverage float64 `json:"languages_required_coverage"`
	DescriptionSimilarity     float64 `json:"description_similarity"`
}

// Missing lists, per category, the job items the CV does not satisfy.
type Missing struct {
	HardRequired      []string `json:"hard_required_missing"`
	HardOptional      []string `json:"hard_optional_missing"`
	Soft              []string `json:"soft_skills_missing"`
	LanguagesRequired []string `json:"languages_required_missing"`
	LanguagesOptional []string `json:"languages_optional_missing"`
}

type Diagnostics struct {
	// SemanticCategories names the categories whose coverage came from the
	// embedding fallback.
	SemanticCategories []string `json:"semantic_categories"`
	WeightSum          float64  `json:"weight_sum"`
	UnknownWeightKeys  []string `json:"unknown_weight_keys"`
}

type Result struct {
	Score       float64     `json:"score"`
	Subscores   Subscores   `json:"subscores"`
	Missing     Missing     `json:"missing"`
	Options     Options     `json:"options"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Engine holds the shared encoder. It is safe for concurrent use when the
// encoder is.
type Engine struct {
	enc     embedding.Encoder
	logger  *log.Logger
	workers int

	warned sync.Map
}

func NewEngine(enc embedding.Encoder, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{enc: enc, logger: logger, workers: 1}
}

// WithWorkers sets how many offers MatchMarket scores in parallel. Output
// does not depend on this value.
func (e *Engine) WithWorkers(n int) *Engine {
	if n < 1 {
		n = 1
	}
	e.workers = n
	return e
}

// Match scores one CV against one offer. Malformed or missing fields never
// fail; the only error source is the encoder.
func (e *Engine) Match(ctx context.Context, cv offer.CV, job offer.JobOffer, opts Options) (Result, error) {
	if opts.Weights == nil {
		opts.Weights = DefaultWeights()
	} else {
		opts.Weights = opts.Weights.clone()
	}
	e.checkWeights(opts.Weights)

	cv = cv.Normalize()
	job = job.Normalize()
	cvHard := []string(cv.SkillsHard)
	cvSoft := []string(cv.SkillsSoft)
	cvLang := []string(cv.Languages)

	hardReq := Coverage(cvHard, job.SkillsHardRequired)
	hardOpt := Coverage(cvHard, job.SkillsHardOptional)
	soft := Coverage(cvSoft, job.SkillsSoft)
	langReq := Coverage(cvLang, job.LanguagesRequired)

	missing := Missing{
		HardRequired:      Difference(job.SkillsHardRequired, cvHard),
		HardOptional:      Difference(job.SkillsHardOptional, cvHard),
		Soft:              Difference(job.SkillsSoft, cvSoft),
		LanguagesRequired: Difference(job.LanguagesRequired, cvLang),
		LanguagesOptional: Difference(job.LanguagesOptional, cvLang),
	}
	diag := Diagnostics{
		SemanticCategories: []string{},
		WeightSum:          round(opts.Weights.Sum(), 6),
		UnknownWeightKeys:  opts.Weights.Unknown(),
	}

	if opts.UseSemanticSkills {
		fallbacks := []struct {
			category string
			have     []string
			want     []string
			cov      *float64
			missing  *[]string
		}{
			{CategoryHardRequired, cvHard, job.SkillsHardRequired, &hardReq, &missing.HardRequired},
			{CategoryHardOptional, cvHard, job.SkillsHardOptional, &hardOpt, &missing.HardOptional},
			{CategoryLanguages, cvLang, job.LanguagesRequired, &langReq, &missing.LanguagesRequired},
		}
		for _, f := range fallbacks {
			if len(f.want) == 0 || len(*f.missing) == 0 {
				continue
			}
			ov, err := SemanticOverlap(ctx, e.enc, f.have, f.want, opts.SkillThreshold)
			if err != nil {
				return Result{}, fmt.Errorf("semantic overlap %s: %w", f.category, err)
			}
			*f.cov = ov.Coverage
			*f.missing = ov.Missing
			diag.SemanticCategories = append(diag.SemanticCategories, f.category)
		}
	}

	desc := 0.0
	if opts.UseDescriptionSemantic {
		sim, err := TextSimilarity(ctx, e.enc, cv.Text.String(), job.Description)
		if err != nil {
			return Result{}, fmt.Errorf("description similarity: %w", err)
		}
		desc = math.Max(0, sim)
	}

	w := opts.Weights
	total := w[CategoryHardRequired]*hardReq +
		w[CategoryHardOptional]*hardOpt +
		w[CategorySoft]*soft +
		w[CategoryLanguages]*langReq +
		w[CategoryDescription]*desc

	sortAll(&missing)
	return Result{
		Score: round(total*100, 1),
		Subscores: Subscores{
			HardRequiredCoverage:      round(hardReq, 2),
			HardOptionalCoverage:      round(hardOpt, 2),
			SoftCoverage:              round(soft, 2),
			LanguagesRequiredCoverage: round(langReq, 2),
			DescriptionSimilarity:     round(desc, 3),
		},
		Missing:     missing,
		Options:     opts,
		Diagnostics: diag,
	}, nil
}

func (e *Engine) checkWeights(w Weights) {
	sum := w.Sum()
	unknown := w.Unknown()
	if math.Abs(sum-1) < 1e-9 && len(unknown) == 0 {
		return
	}
	if _, seen := e.warned.LoadOrStore(w.String(), struct{}{}); seen {
		return
	}
	e.logger.Printf("[Matching] weights not normalized sum=%.4f unknown=%v; score range is [0, %.1f]", sum, unknown, 100*sum)
}

func sortAll(m *Missing) {
	for _, s := range [][]string{m.HardRequired, m.HardOptional, m.Soft, m.LanguagesRequired, m.LanguagesOptional} {
		sort.Strings(s)
	}
}
