package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"job-insight/internal/analytics"
	"job-insight/internal/domain/offer"
	"job-insight/internal/embedding"
	"job-insight/internal/repository"
)

const analyticsTTL = 10 * time.Minute

type GeographyReport struct {
	Source    offer.Source              `json:"source,omitempty"`
	Locations []analytics.LocationCount `json:"locations"`
	Points    []analytics.GeoPoint      `json:"points"`
}

type RelatedTitlesReport struct {
	Query  string                   `json:"query"`
	Titles []analytics.RelatedTitle `json:"titles"`
}

type AnalyticsUsecase interface {
	Skills(ctx context.Context, source offer.Source) (analytics.SkillsReport, error)
	Salary(ctx context.Context, source offer.Source) (analytics.SalaryReport, error)
	Geography(ctx context.Context, source offer.Source, topN int) (GeographyReport, error)
	RelatedTitles(ctx context.Context, query string, topN int, minSimilarity float64) (RelatedTitlesReport, error)
}

type Analytics struct {
	offers repository.OfferRepository
	enc    embedding.Encoder
	cache  Cache
	logger *log.Logger
}

func NewAnalyticsUsecase(offers repository.OfferRepository, enc embedding.Encoder, cache Cache, logger *log.Logger) *Analytics {
	if logger == nil {
		logger = log.Default()
	}
	return &Analytics{offers: offers, enc: enc, cache: cache, logger: logger}
}

func (u *Analytics) Skills(ctx context.Context, source offer.Source) (analytics.SkillsReport, error) {
	if !source.Valid() {
		return analytics.SkillsReport{}, ErrUnknownSource
	}
	key := AnalyticsCacheKey("skills", map[string]any{"source": source})
	return cached(ctx, u, key, func() (analytics.SkillsReport, error) {
		jobs, err := u.load(ctx, source)
		if err != nil {
			return analytics.SkillsReport{}, err
		}
		return analytics.AnalyzeSkills(jobs, source)
	})
}

func (u *Analytics) Salary(ctx context.Context, source offer.Source) (analytics.SalaryReport, error) {
	if !source.Valid() {
		return analytics.SalaryReport{}, ErrUnknownSource
	}
	key := AnalyticsCacheKey("salary", map[string]any{"source": source})
	return cached(ctx, u, key, func() (analytics.SalaryReport, error) {
		jobs, err := u.load(ctx, source)
		if err != nil {
			return analytics.SalaryReport{}, err
		}
		return analytics.AnalyzeSalary(jobs, source)
	})
}

// Geography counts locations across both sources when source is empty.
func (u *Analytics) Geography(ctx context.Context, source offer.Source, topN int) (GeographyReport, error) {
	if source != "" && !source.Valid() {
		return GeographyReport{}, ErrUnknownSource
	}
	if topN < 0 {
		return GeographyReport{}, ErrInvalidInput
	}
	key := AnalyticsCacheKey("geography", map[string]any{"source": source, "top_n": topN})
	return cached(ctx, u, key, func() (GeographyReport, error) {
		jobs, err := u.load(ctx, source)
		if err != nil {
			return GeographyReport{}, err
		}
		return GeographyReport{
			Source:    source,
			Locations: analytics.JobsByLocation(jobs, topN),
			Points:    analytics.GeoPoints(jobs),
		}, nil
	})
}

func (u *Analytics) RelatedTitles(ctx context.Context, query string, topN int, minSimilarity float64) (RelatedTitlesReport, error) {
	query = strings.TrimSpace(query)
	if query == "" || topN < 0 || minSimilarity < -1 || minSimilarity > 1 {
		return RelatedTitlesReport{}, ErrInvalidInput
	}
	key := AnalyticsCacheKey("titles", map[string]any{"query": strings.ToLower(query), "top_n": topN, "min": minSimilarity})
	return cached(ctx, u, key, func() (RelatedTitlesReport, error) {
		jobs, err := u.load(ctx, "")
		if err != nil {
			return RelatedTitlesReport{}, err
		}
		titles, err := analytics.RelatedTitles(ctx, u.enc, jobs, query, topN, minSimilarity)
		if err != nil {
			u.logger.Printf("[Analytics] related titles query=%q err=%v", query, err)
			return RelatedTitlesReport{}, ErrEmbeddingUnavailable
		}
		return RelatedTitlesReport{Query: query, Titles: titles}, nil
	})
}

func (u *Analytics) load(ctx context.Context, source offer.Source) ([]offer.JobOffer, error) {
	jobs, err := u.offers.ListAll(ctx, source)
	if err != nil {
		u.logger.Printf("[Analytics] list offers source=%q err=%v", source, err)
		return nil, ErrInternal
	}
	return jobs, nil
}

// cached serves key from the cache when present and stores fresh results
// otherwise. Cache failures only cost a recomputation.
func cached[T any](ctx context.Context, u *Analytics, key string, compute func() (T, error)) (T, error) {
	if u.cache != nil {
		var hit T
		ok, err := u.cache.GetJSON(ctx, key, &hit)
		if err == nil && ok {
			u.logger.Printf("[Analytics] Cache HIT: %s", key)
			return hit, nil
		}
		u.logger.Printf("[Analytics] Cache MISS: %s", key)
	}

	v, err := compute()
	if err != nil {
		if errors.Is(err, analytics.ErrUnknownSource) {
			return v, ErrUnknownSource
		}
		return v, err
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, v, analyticsTTL); err != nil {
			u.logger.Printf("[Analytics] cache store key=%s err=%v", key, err)
		}
	}
	return v, nil
}
