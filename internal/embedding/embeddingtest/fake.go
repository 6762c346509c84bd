// Package embeddingtest provides deterministic encoders for tests.
package embeddingtest

import (
	"context"
	"hash/fnv"
	"sync"

	"job-insight/internal/embedding"
)

const Dim = 8

// Fake maps known texts to fixed vectors and hashes every other text to a
// deterministic pseudo-random unit vector. It records every call.
type Fake struct {
	Vectors map[string][]float32
	Err     error

	mu    sync.Mutex
	calls [][]string
}

func NewFake(vectors map[string][]float32) *Fake {
	return &Fake{Vectors: vectors}
}

func (f *Fake) Encode(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), texts...))
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := f.Vectors[t]; ok {
			out[i] = embedding.Unit(append([]float32(nil), v...))
			continue
		}
		out[i] = hashed(t)
	}
	return out, nil
}

// Calls returns the number of Encode invocations.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Inputs returns every batch passed to Encode, in call order.
func (f *Fake) Inputs() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func hashed(s string) []float32 {
	v := make([]float32, Dim)
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	x := h.Sum64()
	for i := range v {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		v[i] = float32(int64(x%2001)-1000) / 1000
	}
	return embedding.Unit(v)
}

var _ embedding.Encoder = (*Fake)(nil)
