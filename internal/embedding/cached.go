package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"
)

// VectorCache is the subset of the Redis JSON cache the decorator needs.
type VectorCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CachedEncoder memoizes vectors per (model, text). Cache failures fall back
// to the wrapped encoder.
type CachedEncoder struct {
	next   Encoder
	cache  VectorCache
	model  string
	ttl    time.Duration
	logger *log.Logger
}

func NewCachedEncoder(next Encoder, cache VectorCache, model string, ttl time.Duration, logger *log.Logger) *CachedEncoder {
	return &CachedEncoder{next: next, cache: cache, model: model, ttl: ttl, logger: logger}
}

func (c *CachedEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if c.cache == nil {
		return c.next.Encode(ctx, texts)
	}

	out := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string
	for i, t := range texts {
		var v []float32
		hit, err := c.cache.GetJSON(ctx, c.key(t), &v)
		if err == nil && hit && len(v) > 0 {
			out[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := c.next.Encode(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("embedding: got %d vectors for %d inputs", len(vecs), len(missTexts))
	}
	for j, i := range missIdx {
		out[i] = vecs[j]
		if err := c.cache.SetJSON(ctx, c.key(missTexts[j]), vecs[j], c.ttl); err != nil && c.logger != nil {
			c.logger.Printf("[Embedding] cache set error err=%v", err)
		}
	}
	return out, nil
}

func (c *CachedEncoder) key(text string) string {
	h := sha256.Sum256([]byte(text))
	return "emb:" + c.model + ":" + hex.EncodeToString(h[:])
}

var _ Encoder = (*CachedEncoder)(nil)
