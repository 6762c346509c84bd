package usecase

import (
	"context"
	"log"

	"job-insight/internal/domain/offer"
	"job-insight/internal/repository"
)

type OfferPage struct {
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
	Offers []offer.JobOffer `json:"offers"`
}

type OfferUsecase interface {
	List(ctx context.Context, source offer.Source, limit, offset int) (OfferPage, error)
	Stats(ctx context.Context) ([]offer.SourceStat, error)
}

type Offers struct {
	offers repository.OfferRepository
	logger *log.Logger
}

func NewOfferUsecase(offers repository.OfferRepository, logger *log.Logger) *Offers {
	if logger == nil {
		logger = log.Default()
	}
	return &Offers{offers: offers, logger: logger}
}

func (u *Offers) List(ctx context.Context, source offer.Source, limit, offset int) (OfferPage, error) {
	if limit == 0 {
		limit = 20
	}
	if limit < 0 || limit > 100 || offset < 0 {
		return OfferPage{}, ErrInvalidInput
	}
	if source != "" && !source.Valid() {
		return OfferPage{}, ErrUnknownSource
	}

	total, err := u.offers.Count(ctx, source)
	if err != nil {
		u.logger.Printf("[Offers] count source=%q err=%v", source, err)
		return OfferPage{}, ErrInternal
	}
	rows, err := u.offers.List(ctx, repository.OfferFilter{Source: source, Limit: limit, Offset: offset})
	if err != nil {
		u.logger.Printf("[Offers] list source=%q err=%v", source, err)
		return OfferPage{}, ErrInternal
	}
	return OfferPage{Total: total, Limit: limit, Offset: offset, Offers: rows}, nil
}

func (u *Offers) Stats(ctx context.Context) ([]offer.SourceStat, error) {
	stats, err := u.offers.SourceStats(ctx)
	if err != nil {
		u.logger.Printf("[Offers] source stats err=%v", err)
		return nil, ErrInternal
	}
	return stats, nil
}
