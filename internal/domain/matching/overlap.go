package matching

import (
	"context"
	"fmt"

	"job-insight/internal/embedding"
	"job-insight/internal/pkg/textnorm"
)

// Overlap is the outcome of comparing two item lists by meaning rather than
// by spelling.
type Overlap struct {
	Matched  []string `json:"matched"`
	Missing  []string `json:"missing"`
	Coverage float64  `json:"coverage"`
}

// SemanticOverlap marks each job item as matched when its best cosine
// similarity against any CV item reaches threshold. Both lists are normalized
// and deduplicated first. Coverage is rounded to two decimals.
func SemanticOverlap(ctx context.Context, enc embedding.Encoder, cvItems, jobItems []string, threshold float64) (Overlap, error) {
	cv := textnorm.Set(cvItems)
	job := textnorm.Set(jobItems)

	if len(job) == 0 {
		return Overlap{Matched: []string{}, Missing: []string{}, Coverage: 1.0}, nil
	}
	if len(cv) == 0 {
		return Overlap{Matched: []string{}, Missing: job, Coverage: 0.0}, nil
	}

	batch := make([]string, 0, len(cv)+len(job))
	batch = append(batch, cv...)
	batch = append(batch, job...)
	vecs, err := enc.Encode(ctx, batch)
	if err != nil {
		return Overlap{}, err
	}
	if len(vecs) != len(batch) {
		return Overlap{}, fmt.Errorf("matching: encoder returned %d vectors for %d items", len(vecs), len(batch))
	}
	cvVecs, jobVecs := vecs[:len(cv)], vecs[len(cv):]

	out := Overlap{Matched: []string{}, Missing: []string{}}
	for i, item := range job {
		best := -1.0
		for _, cvv := range cvVecs {
			if s := embedding.Cosine(jobVecs[i], cvv); s > best {
				best = s
			}
		}
		if best >= threshold {
			out.Matched = append(out.Matched, item)
		} else {
			out.Missing = append(out.Missing, item)
		}
	}
	out.Coverage = round(float64(len(out.Matched))/float64(len(job)), 2)
	return out, nil
}

// TextSimilarity is the cosine similarity of two free texts, rounded to three
// decimals. It returns 0 without touching the encoder when either side is
// empty after normalization.
func TextSimilarity(ctx context.Context, enc embedding.Encoder, a, b string) (float64, error) {
	a = textnorm.Text(a)
	b = textnorm.Text(b)
	if a == "" || b == "" {
		return 0, nil
	}

	va, err := enc.Encode(ctx, []string{a})
	if err != nil {
		return 0, err
	}
	vb, err := enc.Encode(ctx, []string{b})
	if err != nil {
		return 0, err
	}
	if len(va) != 1 || len(vb) != 1 {
		return 0, fmt.Errorf("matching: encoder returned no vector")
	}
	return round(embedding.Cosine(va[0], vb[0]), 3), nil
}
