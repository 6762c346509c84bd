package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"job-insight/internal/domain/offer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryOfferRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryOfferRepository()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	n, err := r.UpsertOffers(ctx, uuid.Nil, []offer.JobOffer{
		{ID: "w1", Source: offer.SourceWTTJ, CollectedAt: t0},
		{ID: "f1", Source: offer.SourceFranceTravail, CollectedAt: t0.Add(time.Hour), SkillsSoft: []string{"Rigueur"}},
		{ID: "", Source: offer.SourceWTTJ},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = r.UpsertOffers(ctx, uuid.Nil, []offer.JobOffer{{ID: "w1", Source: offer.SourceWTTJ, Title: "updated", CollectedAt: t0}})
	require.NoError(t, err)

	all, err := r.ListAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "w1", all[0].ID)
	assert.Equal(t, "updated", all[0].Title)
	assert.Equal(t, []string{"rigueur"}, all[1].SkillsSoft)

	recent, err := r.List(ctx, OfferFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "f1", recent[0].ID)

	empty, err := r.List(ctx, OfferFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)

	got, err := r.GetByID(ctx, "", "f1")
	require.NoError(t, err)
	assert.Equal(t, offer.SourceFranceTravail, got.Source)
	_, err = r.GetByID(ctx, offer.SourceWTTJ, "f1")
	assert.ErrorIs(t, err, ErrOfferNotFound)
	_, err = r.GetByID(ctx, "", "nope")
	assert.ErrorIs(t, err, ErrOfferNotFound)

	c, _ := r.Count(ctx, offer.SourceWTTJ)
	assert.Equal(t, 1, c)

	stats, err := r.SourceStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, offer.SourceFranceTravail, stats[0].Source)
}

func TestMemoryOfferRepository_SharedIDAcrossSources(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryOfferRepository()
	_, err := r.UpsertOffers(ctx, uuid.Nil, []offer.JobOffer{
		{ID: "123", Source: offer.SourceFranceTravail, Title: "Analyste"},
		{ID: "123", Source: offer.SourceWTTJ, Title: "Data Engineer"},
	})
	require.NoError(t, err)

	_, err = r.GetByID(ctx, "", "123")
	assert.ErrorIs(t, err, ErrAmbiguousOffer)

	got, err := r.GetByID(ctx, offer.SourceWTTJ, "123")
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer", got.Title)
}

func TestLoadOffersFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "offers.json")
	b, err := json.Marshal([]offer.JobOffer{{ID: "1", Source: offer.SourceWTTJ, Title: "Go dev"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))

	r, err := LoadOffersFile(path)
	require.NoError(t, err)
	c, _ := r.Count(context.Background(), "")
	assert.Equal(t, 1, c)

	_, err = LoadOffersFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
