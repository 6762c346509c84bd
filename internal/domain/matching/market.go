package matching

import (
	"context"
	"sort"

	"job-insight/internal/domain/offer"
	"job-insight/internal/pkg/workerpool"
)

// JobSummary identifies the offer a market result belongs to.
type JobSummary struct {
	OfferID  string       `json:"offer_id"`
	Title    string       `json:"job_title"`
	Company  string       `json:"company"`
	Location string       `json:"location"`
	Source   offer.Source `json:"source"`
	URL      string       `json:"url"`
}

func SummaryOf(j offer.JobOffer) JobSummary {
	return JobSummary{
		OfferID:  j.ID,
		Title:    j.Title,
		Company:  j.Company,
		Location: j.Location,
		Source:   j.Source,
		URL:      j.URL,
	}
}

type MarketMatch struct {
	JobSummary
	Result
}

// MatchMarket scores the CV against every offer, keeps results scoring at
// least minScore and ranks them by score, then hard-required coverage, then
// description similarity, all descending. Equal keys keep input order.
func (e *Engine) MatchMarket(ctx context.Context, cv offer.CV, jobs []offer.JobOffer, opts Options, minScore float64) ([]MarketMatch, error) {
	if len(jobs) == 0 {
		return []MarketMatch{}, nil
	}
	cv = cv.Normalize()

	results := make([]Result, len(jobs))
	if err := e.scoreAll(ctx, cv, jobs, opts, results); err != nil {
		return nil, err
	}

	out := make([]MarketMatch, 0, len(jobs))
	for i, r := range results {
		if r.Score < minScore {
			continue
		}
		out = append(out, MarketMatch{JobSummary: SummaryOf(jobs[i]), Result: r})
	}

	sort.SliceStable(out, func(a, b int) bool {
		x, y := out[a].Result, out[b].Result
		if x.Score != y.Score {
			return x.Score > y.Score
		}
		if x.Subscores.HardRequiredCoverage != y.Subscores.HardRequiredCoverage {
			return x.Subscores.HardRequiredCoverage > y.Subscores.HardRequiredCoverage
		}
		return x.Subscores.DescriptionSimilarity > y.Subscores.DescriptionSimilarity
	})
	return out, nil
}

func (e *Engine) scoreAll(ctx context.Context, cv offer.CV, jobs []offer.JobOffer, opts Options, results []Result) error {
	if e.workers <= 1 || len(jobs) == 1 {
		for i := range jobs {
			r, err := e.Match(ctx, cv, jobs[i], opts)
			if err != nil {
				return err
			}
			results[i] = r
		}
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := workerpool.New(e.workers, len(jobs))
	done := pool.Run(ctx)
	for i := range jobs {
		pool.Submit(func(ctx context.Context) error {
			r, err := e.Match(ctx, cv, jobs[i], opts)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	pool.Close()

	var firstErr error
	for res := range done {
		if res.Err != nil && firstErr == nil {
			firstErr = res.Err
			cancel()
		}
	}
	if firstErr == nil {
		firstErr = ctx.Err()
	}
	return firstErr
}
