package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_UnavailableIsNoop(t *testing.T) {
	ctx := context.Background()
	for _, r := range []*Redis{nil, {}} {
		var out map[string]int
		hit, err := r.GetJSON(ctx, "k", &out)
		require.NoError(t, err)
		assert.False(t, hit)

		assert.NoError(t, r.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))
		assert.NoError(t, r.Delete(ctx, "k"))
		assert.NoError(t, r.DeleteByPattern(ctx, "analytics:*"))

		ok, err := r.SetIfNotExists(ctx, "lock", "1", 0)
		require.NoError(t, err)
		assert.False(t, ok)

		assert.False(t, r.Available())
		assert.Error(t, r.Ping(ctx))
		assert.NoError(t, r.Close())
	}
}

func TestNewRedisFromClient_DefaultTTL(t *testing.T) {
	r := NewRedisFromClient(nil, 0, nil)
	assert.Equal(t, defaultTTL, r.ttl)
	assert.False(t, r.Available())
}
