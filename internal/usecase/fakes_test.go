package usecase

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"

	"job-insight/internal/collector/francetravail"
	"job-insight/internal/collector/wttj"
	"job-insight/internal/domain/offer"
	"job-insight/internal/normalizer"

	"github.com/google/uuid"
)

type memCache struct {
	mu        sync.Mutex
	data      map[string][]byte
	locks     map[string]bool
	available bool
	gets      int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, locks: map[string]bool{}, available: true}
}

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = b
	c.mu.Unlock()
	return nil
}

func (c *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memCache) SetIfNotExists(_ context.Context, key, _ string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] {
		return false, nil
	}
	c.locks[key] = true
	return true, nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, key)
	delete(c.data, key)
	return nil
}

func (c *memCache) Available() bool { return c.available }

type fakeFT struct {
	records []normalizer.FTRecord
	err     error
	queries []francetravail.Query
}

func (f *fakeFT) Search(_ context.Context, q francetravail.Query) ([]normalizer.FTRecord, error) {
	f.queries = append(f.queries, q)
	return f.records, f.err
}

type fakeBoard struct {
	records []normalizer.WTTJRecord
	err     error
	opts    []wttj.Options
}

func (f *fakeBoard) Collect(_ context.Context, o wttj.Options) ([]normalizer.WTTJRecord, error) {
	f.opts = append(f.opts, o)
	return f.records, f.err
}

type fakeRuns struct {
	mu       sync.Mutex
	started  []offer.Source
	finished map[uuid.UUID]offer.RunStatus
}

func (f *fakeRuns) Start(_ context.Context, src offer.Source, _ string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, src)
	return uuid.New(), nil
}

func (f *fakeRuns) Finish(_ context.Context, id uuid.UUID, status offer.RunStatus, _, _ int, _ error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finished == nil {
		f.finished = map[uuid.UUID]offer.RunStatus{}
	}
	f.finished[id] = status
	return nil
}

func (f *fakeRuns) Recent(context.Context, int) ([]offer.CollectRun, error) { return nil, nil }

type notification struct {
	source  string
	keyword string
	saved   int
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *fakeNotifier) NotifyOffersUpdated(source, keyword string, saved int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{source, keyword, saved})
}
