package usecase

import (
	"context"
	"errors"
	"log"
	"math"

	"job-insight/internal/domain/matching"
	"job-insight/internal/domain/offer"
	"job-insight/internal/repository"
)

type MarketParams struct {
	Options  matching.Options
	MinScore float64
	Source   offer.Source
	Limit    int
}

type MarketResult struct {
	OffersScored int                    `json:"offers_scored"`
	Matches      []matching.MarketMatch `json:"matches"`
}

type MatchUsecase interface {
	MatchOffer(ctx context.Context, source offer.Source, offerID string, cv offer.CV, opts matching.Options) (matching.MarketMatch, error)
	MatchMarket(ctx context.Context, cv offer.CV, p MarketParams) (MarketResult, error)
}

type Match struct {
	offers repository.OfferRepository
	engine *matching.Engine
	logger *log.Logger
}

func NewMatchUsecase(offers repository.OfferRepository, engine *matching.Engine, logger *log.Logger) *Match {
	if logger == nil {
		logger = log.Default()
	}
	return &Match{offers: offers, engine: engine, logger: logger}
}

// MatchOffer scores cv against the offer keyed by (source, offerID). An empty
// source looks the id up across sources and fails with ErrAmbiguousOffer when
// more than one source carries it.
func (u *Match) MatchOffer(ctx context.Context, source offer.Source, offerID string, cv offer.CV, opts matching.Options) (matching.MarketMatch, error) {
	if offerID == "" {
		return matching.MarketMatch{}, ErrInvalidInput
	}
	if source != "" && !source.Valid() {
		return matching.MarketMatch{}, ErrUnknownSource
	}
	if err := validateOptions(opts); err != nil {
		return matching.MarketMatch{}, err
	}

	job, err := u.offers.GetByID(ctx, source, offerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOfferNotFound):
			return matching.MarketMatch{}, ErrOfferNotFound
		case errors.Is(err, repository.ErrAmbiguousOffer):
			return matching.MarketMatch{}, ErrAmbiguousOffer
		}
		u.logger.Printf("[Match] load offer id=%s err=%v", offerID, err)
		return matching.MarketMatch{}, ErrInternal
	}

	res, err := u.engine.Match(ctx, cv, job, opts)
	if err != nil {
		u.logger.Printf("[Match] score offer id=%s err=%v", offerID, err)
		return matching.MarketMatch{}, ErrEmbeddingUnavailable
	}
	return matching.MarketMatch{JobSummary: matching.SummaryOf(job), Result: res}, nil
}

// MatchMarket ranks every stored offer, optionally restricted to one source,
// and truncates the ranking to p.Limit when positive.
func (u *Match) MatchMarket(ctx context.Context, cv offer.CV, p MarketParams) (MarketResult, error) {
	if err := validateOptions(p.Options); err != nil {
		return MarketResult{}, err
	}
	if p.MinScore < 0 || p.MinScore > 100 || math.IsNaN(p.MinScore) || p.Limit < 0 {
		return MarketResult{}, ErrInvalidInput
	}
	if p.Source != "" && !p.Source.Valid() {
		return MarketResult{}, ErrUnknownSource
	}

	jobs, err := u.offers.ListAll(ctx, p.Source)
	if err != nil {
		u.logger.Printf("[Match] list offers source=%q err=%v", p.Source, err)
		return MarketResult{}, ErrInternal
	}

	matches, err := u.engine.MatchMarket(ctx, cv, jobs, p.Options, p.MinScore)
	if err != nil {
		u.logger.Printf("[Match] market offers=%d err=%v", len(jobs), err)
		return MarketResult{}, ErrEmbeddingUnavailable
	}
	if p.Limit > 0 && len(matches) > p.Limit {
		matches = matches[:p.Limit]
	}
	u.logger.Printf("[Match] market offers=%d kept=%d min_score=%g", len(jobs), len(matches), p.MinScore)
	return MarketResult{OffersScored: len(jobs), Matches: matches}, nil
}

func validateOptions(o matching.Options) error {
	if o.SkillThreshold < 0 || o.SkillThreshold > 1 || math.IsNaN(o.SkillThreshold) {
		return ErrInvalidInput
	}
	for _, w := range o.Weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return ErrInvalidInput
		}
	}
	return nil
}
