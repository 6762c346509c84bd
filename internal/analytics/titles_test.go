package analytics

import (
	"context"
	"testing"

	"job-insight/internal/domain/offer"
	"job-insight/internal/embedding/embeddingtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titleVectors() map[string][]float32 {
	return map[string][]float32{
		"data analyst":        {1, 0, 0},
		"analyste de données": {0.95, 0.1, 0},
		"business analyst":    {0.8, 0.5, 0},
		"data scientist":      {0.9, 0, 0.3},
		"développeur java":    {0, 1, 0},
		"comptable":           {0, 0, 1},
	}
}

func TestRelatedTitles(t *testing.T) {
	enc := embeddingtest.NewFake(titleVectors())
	jobs := []offer.JobOffer{
		{Title: "Data Analyst (H/F)"},
		{Title: "Analyste de données"},
		{Title: "Data Scientist"},
		{Title: "Data Scientist (F/H)"},
		{Title: "Business Analyst"},
		{Title: "Développeur Java"},
		{Title: "Comptable"},
		{Title: "(H/F)"},
	}

	got, err := RelatedTitles(context.Background(), enc, jobs, "Data Analyst", 0, DefaultRelatedMinSimilarity)
	require.NoError(t, err)

	titles := make([]string, 0, len(got))
	for _, r := range got {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"analyste de données", "data scientist", "business analyst"}, titles)
	assert.Equal(t, 2, got[1].Count)
	assert.Equal(t, 2, enc.Calls())
}

func TestRelatedTitles_TopN(t *testing.T) {
	enc := embeddingtest.NewFake(titleVectors())
	jobs := []offer.JobOffer{{Title: "Analyste de données"}, {Title: "Data Scientist"}}

	got, err := RelatedTitles(context.Background(), enc, jobs, "data analyst", 1, 0.5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "analyste de données", got[0].Title)
}

func TestRelatedTitles_NoTitles(t *testing.T) {
	enc := embeddingtest.NewFake(nil)
	got, err := RelatedTitles(context.Background(), enc, nil, "data analyst", 10, 0.7)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, enc.Calls())
}
