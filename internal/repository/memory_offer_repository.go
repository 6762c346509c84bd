package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"job-insight/internal/domain/offer"

	"github.com/google/uuid"
)

// MemoryOfferRepository keeps offers in process. It backs the service when no
// database is configured and serves as the dataset loader for the CLI.
type MemoryOfferRepository struct {
	mu     sync.RWMutex
	offers map[string]offer.JobOffer
	order  []string
}

func NewMemoryOfferRepository() *MemoryOfferRepository {
	return &MemoryOfferRepository{offers: map[string]offer.JobOffer{}}
}

// LoadOffersFile reads a JSON array of offers, as written by the collector
// CLI, into a new in-memory repository.
func LoadOffersFile(path string) (*MemoryOfferRepository, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read offers file: %w", err)
	}
	var offers []offer.JobOffer
	if err := json.Unmarshal(b, &offers); err != nil {
		return nil, fmt.Errorf("decode offers file %s: %w", path, err)
	}
	r := NewMemoryOfferRepository()
	if _, err := r.UpsertOffers(context.Background(), uuid.Nil, offers); err != nil {
		return nil, err
	}
	return r, nil
}

func memKey(src offer.Source, id string) string {
	return string(src) + "\x00" + id
}

func (r *MemoryOfferRepository) UpsertOffers(_ context.Context, _ uuid.UUID, offers []offer.JobOffer) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := 0
	for _, o := range offers {
		if strings.TrimSpace(o.ID) == "" || !o.Source.Valid() {
			continue
		}
		o = o.Normalize()
		if o.CollectedAt.IsZero() {
			o.CollectedAt = time.Now().UTC()
		}
		k := memKey(o.Source, o.ID)
		if _, ok := r.offers[k]; !ok {
			r.order = append(r.order, k)
		}
		r.offers[k] = o
		saved++
	}
	return saved, nil
}

func (r *MemoryOfferRepository) snapshot(source offer.Source) []offer.JobOffer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]offer.JobOffer, 0, len(r.order))
	for _, k := range r.order {
		o := r.offers[k]
		if source != "" && o.Source != source {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (r *MemoryOfferRepository) List(_ context.Context, f OfferFilter) ([]offer.JobOffer, error) {
	all := r.snapshot(f.Source)
	sort.SliceStable(all, func(a, b int) bool { return all[a].CollectedAt.After(all[b].CollectedAt) })

	limit := f.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	start := f.Offset
	if start < 0 {
		start = 0
	}
	if start >= len(all) {
		return []offer.JobOffer{}, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

// ListAll returns offers in insertion order, which keeps the board-first
// ordering produced by normalizer.Merge.
func (r *MemoryOfferRepository) ListAll(_ context.Context, source offer.Source) ([]offer.JobOffer, error) {
	return r.snapshot(source), nil
}

func (r *MemoryOfferRepository) GetByID(_ context.Context, source offer.Source, id string) (offer.JobOffer, error) {
	id = strings.TrimSpace(id)
	var found []offer.JobOffer
	for _, o := range r.snapshot(source) {
		if o.ID == id {
			found = append(found, o)
		}
	}
	return pickOne(found)
}

func (r *MemoryOfferRepository) Count(_ context.Context, source offer.Source) (int, error) {
	return len(r.snapshot(source)), nil
}

func (r *MemoryOfferRepository) SourceStats(_ context.Context) ([]offer.SourceStat, error) {
	stats := map[offer.Source]*offer.SourceStat{}
	for _, o := range r.snapshot("") {
		st, ok := stats[o.Source]
		if !ok {
			st = &offer.SourceStat{Source: o.Source}
			stats[o.Source] = st
		}
		st.TotalOffers++
		if o.CollectedAt.After(st.LastCollected) {
			st.LastCollected = o.CollectedAt
		}
	}
	out := make([]offer.SourceStat, 0, len(stats))
	for _, st := range stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].TotalOffers != out[b].TotalOffers {
			return out[a].TotalOffers > out[b].TotalOffers
		}
		return out[a].Source < out[b].Source
	})
	return out, nil
}

var _ OfferRepository = (*MemoryOfferRepository)(nil)
