package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// Cache is the best-effort JSON store behind analytics reports and the
// collection lock.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	Available() bool
}

const (
	analyticsKeyPrefix = "analytics:"
	analyticsPattern   = analyticsKeyPrefix + "*"
	collectLockPrefix  = "collect:lock:"
)

// AnalyticsCacheKey hashes params so that equivalent requests share a key.
func AnalyticsCacheKey(kind string, params any) string {
	b, _ := json.Marshal(params)
	sum := sha256.Sum256(b)
	return analyticsKeyPrefix + strings.TrimSpace(kind) + ":" + hex.EncodeToString(sum[:])
}

func CollectLockKey(source string) string {
	s := strings.ToLower(strings.Join(strings.Fields(source), "_"))
	return collectLockPrefix + s
}
