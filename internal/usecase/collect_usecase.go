package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"job-insight/internal/collector/francetravail"
	"job-insight/internal/collector/wttj"
	"job-insight/internal/domain/offer"
	"job-insight/internal/normalizer"
	"job-insight/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const collectLockTTL = 15 * time.Minute

type FTSearcher interface {
	Search(ctx context.Context, q francetravail.Query) ([]normalizer.FTRecord, error)
}

type BoardCollector interface {
	Collect(ctx context.Context, opts wttj.Options) ([]normalizer.WTTJRecord, error)
}

type OffersNotifier interface {
	NotifyOffersUpdated(source, keyword string, saved int)
}

type CollectRequest struct {
	Sources      []offer.Source
	Keywords     []string
	Location     string
	ContractType string
	MaxResults   int
	MaxPages     int
	Locations    []string
	Contracts    []string
	MinYears     *int
	MaxYears     *int
}

type RunReport struct {
	Source  offer.Source `json:"source"`
	RunID   string       `json:"run_id,omitempty"`
	Found   int          `json:"found"`
	Saved   int          `json:"saved"`
	Partial bool         `json:"partial,omitempty"`
	Error   string       `json:"error,omitempty"`
	Elapsed string       `json:"elapsed"`
}

type CollectReport struct {
	Runs  []RunReport `json:"runs"`
	Saved int         `json:"saved"`
}

type CollectUsecase interface {
	Collect(ctx context.Context, req CollectRequest) (CollectReport, error)
}

type Collect struct {
	ft       FTSearcher
	board    BoardCollector
	offers   repository.OfferRepository
	runs     repository.CollectRunRepository
	cache    Cache
	notifier OffersNotifier
	logger   *log.Logger
	now      func() time.Time
}

// NewCollectUsecase wires the collectors. ft, board, runs, cache and notifier
// may each be nil; a nil collector makes its source unavailable.
func NewCollectUsecase(ft FTSearcher, board BoardCollector, offers repository.OfferRepository, runs repository.CollectRunRepository, cache Cache, notifier OffersNotifier, logger *log.Logger) *Collect {
	if logger == nil {
		logger = log.Default()
	}
	return &Collect{ft: ft, board: board, offers: offers, runs: runs, cache: cache, notifier: notifier, logger: logger, now: time.Now}
}

// Collect runs every requested source concurrently. A failing source is
// reported in its RunReport and does not abort the others; the returned
// error is only set when the request itself is unusable.
func (u *Collect) Collect(ctx context.Context, req CollectRequest) (CollectReport, error) {
	keywords := make([]string, 0, len(req.Keywords))
	for _, k := range req.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) == 0 {
		return CollectReport{}, ErrInvalidInput
	}
	req.Keywords = keywords

	sources := req.Sources
	if len(sources) == 0 {
		sources = []offer.Source{offer.SourceWTTJ, offer.SourceFranceTravail}
	}
	for _, s := range sources {
		if !s.Valid() {
			return CollectReport{}, ErrUnknownSource
		}
		if !u.configured(s) {
			return CollectReport{}, fmt.Errorf("%w: %s", ErrCollectorNotConfigured, s)
		}
	}

	reports := make([]RunReport, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			reports[i] = u.runSource(gctx, src, req)
			return nil
		})
	}
	_ = g.Wait()

	out := CollectReport{Runs: reports}
	for _, r := range reports {
		out.Saved += r.Saved
	}
	if out.Saved > 0 && u.cache != nil {
		if err := u.cache.DeleteByPattern(ctx, analyticsPattern); err != nil {
			u.logger.Printf("[Collect] analytics cache invalidation err=%v", err)
		}
	}
	return out, nil
}

func (u *Collect) configured(s offer.Source) bool {
	switch s {
	case offer.SourceFranceTravail:
		return u.ft != nil
	case offer.SourceWTTJ:
		return u.board != nil
	}
	return false
}

func (u *Collect) runSource(ctx context.Context, src offer.Source, req CollectRequest) RunReport {
	started := u.now()
	rep := RunReport{Source: src}
	keyword := strings.Join(req.Keywords, ",")

	if u.cache != nil && u.cache.Available() {
		lock := CollectLockKey(string(src))
		ok, err := u.cache.SetIfNotExists(ctx, lock, "1", collectLockTTL)
		if err == nil && !ok {
			rep.Error = ErrCollectInProgress.Error()
			rep.Elapsed = u.now().Sub(started).Round(time.Millisecond).String()
			return rep
		}
		if ok {
			defer func() { _ = u.cache.Delete(context.Background(), lock) }()
		}
	}

	runID := uuid.Nil
	if u.runs != nil {
		id, err := u.runs.Start(ctx, src, keyword)
		if err != nil {
			u.logger.Printf("[Collect] start run source=%s err=%v", src, err)
		} else {
			runID = id
			rep.RunID = id.String()
		}
	}

	offers, found, err := u.fetch(ctx, src, req)
	rep.Found = found
	if len(offers) > 0 {
		// Offers fetched before a failure are still stored.
		saveCtx := ctx
		if err != nil {
			saveCtx = context.WithoutCancel(ctx)
		}
		saved, serr := u.offers.UpsertOffers(saveCtx, runID, offers)
		rep.Saved = saved
		if serr != nil {
			err = errors.Join(err, serr)
		}
	}

	status := offer.RunSuccess
	switch {
	case err != nil && rep.Saved > 0:
		status = offer.RunPartial
		rep.Partial = true
	case err != nil:
		status = offer.RunFailed
	}
	if err != nil {
		rep.Error = err.Error()
		u.logger.Printf("[Collect] source=%s keyword=%q status=%s err=%v", src, keyword, status, err)
	}
	if u.runs != nil && runID != uuid.Nil {
		if ferr := u.runs.Finish(context.Background(), runID, status, rep.Found, rep.Saved, err); ferr != nil {
			u.logger.Printf("[Collect] finish run id=%s err=%v", runID, ferr)
		}
	}

	rep.Elapsed = u.now().Sub(started).Round(time.Millisecond).String()
	u.logger.Printf("[Collect] source=%s keyword=%q found=%d saved=%d elapsed=%s", src, keyword, rep.Found, rep.Saved, rep.Elapsed)
	if rep.Saved > 0 && u.notifier != nil {
		u.notifier.NotifyOffersUpdated(string(src), keyword, rep.Saved)
	}
	return rep
}

// fetch returns whatever a source produced along with its error, so a
// collection cut short still yields the offers read so far.
func (u *Collect) fetch(ctx context.Context, src offer.Source, req CollectRequest) ([]offer.JobOffer, int, error) {
	at := u.now().UTC()
	switch src {
	case offer.SourceFranceTravail:
		records, err := u.ft.Search(ctx, francetravail.Query{
			Keywords:     strings.Join(req.Keywords, ","),
			Location:     req.Location,
			ContractType: req.ContractType,
			MaxResults:   req.MaxResults,
		})
		return normalizer.FranceTravail(records, at), len(records), err

	case offer.SourceWTTJ:
		records, err := u.board.Collect(ctx, wttj.Options{
			Keywords:  req.Keywords,
			MaxPages:  req.MaxPages,
			Locations: req.Locations,
			Contracts: req.Contracts,
			MinYears:  req.MinYears,
			MaxYears:  req.MaxYears,
		})
		return normalizer.WTTJ(records, at), len(records), err
	}
	return nil, 0, errors.New("unsupported source")
}
