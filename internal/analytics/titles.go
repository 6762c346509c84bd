package analytics

import (
	"context"
	"fmt"
	"sort"

	"job-insight/internal/domain/offer"
	"job-insight/internal/embedding"
	"job-insight/internal/pkg/textnorm"
)

const (
	DefaultRelatedTopN          = 10
	DefaultRelatedMinSimilarity = 0.7
)

type RelatedTitle struct {
	Title      string  `json:"job_title"`
	Similarity float64 `json:"similarity"`
	Count      int     `json:"nb_offres"`
}

// RelatedTitles finds market job titles close in meaning to query. Titles are
// cleaned with textnorm.Title and counted; the query itself is excluded.
// Results are ordered by similarity then count, both descending.
func RelatedTitles(ctx context.Context, enc embedding.Encoder, jobs []offer.JobOffer, query string, topN int, minSimilarity float64) ([]RelatedTitle, error) {
	if topN <= 0 {
		topN = DefaultRelatedTopN
	}
	q := textnorm.Title(query)

	counts := map[string]int{}
	var titles []string
	for _, j := range jobs {
		t := textnorm.Title(j.Title)
		if t == "" {
			continue
		}
		if counts[t] == 0 {
			titles = append(titles, t)
		}
		counts[t]++
	}
	if len(titles) == 0 || q == "" {
		return []RelatedTitle{}, nil
	}

	qv, err := enc.Encode(ctx, []string{q})
	if err != nil {
		return nil, err
	}
	tv, err := enc.Encode(ctx, titles)
	if err != nil {
		return nil, err
	}
	if len(qv) != 1 || len(tv) != len(titles) {
		return nil, fmt.Errorf("analytics: encoder returned %d/%d vectors", len(qv), len(tv))
	}

	out := make([]RelatedTitle, 0)
	for i, t := range titles {
		sim := embedding.Cosine(qv[0], tv[i])
		if sim < minSimilarity || t == q {
			continue
		}
		out = append(out, RelatedTitle{Title: t, Similarity: round(sim, 3), Count: counts[t]})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Similarity != out[b].Similarity {
			return out[a].Similarity > out[b].Similarity
		}
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Title < out[b].Title
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out, nil
}
