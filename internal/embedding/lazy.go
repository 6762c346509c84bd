package embedding

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Loader builds the underlying encoder. It runs at most once successfully.
type Loader func(ctx context.Context) (Encoder, error)

// Lazy is a process-wide encoder handle that loads its model on the first
// non-empty Encode call and reuses it for every later call. A failed load is
// not cached, so the next call tries again.
type Lazy struct {
	load   Loader
	logger *log.Logger

	mu  sync.Mutex
	enc Encoder
}

func NewLazy(load Loader, logger *log.Logger) *Lazy {
	if logger == nil {
		logger = log.Default()
	}
	return &Lazy{load: load, logger: logger}
}

func (l *Lazy) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	enc, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return enc.Encode(ctx, texts)
}

// Loaded reports whether the model has been initialized.
func (l *Lazy) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc != nil
}

func (l *Lazy) get(ctx context.Context) (Encoder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.enc != nil {
		return l.enc, nil
	}
	if l.load == nil {
		return nil, fmt.Errorf("embedding: no loader configured")
	}
	enc, err := l.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("embedding: load model: %w", err)
	}
	if enc == nil {
		return nil, fmt.Errorf("embedding: loader returned nil encoder")
	}
	l.enc = enc
	l.logger.Printf("[Embedding] model loaded")
	return enc, nil
}

var _ Encoder = (*Lazy)(nil)
