package cache

import (
	"context"
	"testing"
	"time"

	"jobhub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_DisabledIsBypassed(t *testing.T) {
	r := NewRedis(config.RedisConfig{}, nil)
	ctx := context.Background()

	assert.Nil(t, r.Client())
	assert.ErrorIs(t, r.Ping(ctx), ErrUnavailable)

	require.NoError(t, r.SetJSON(ctx, "jobs:search:x", map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	hit, err := r.GetJSON(ctx, "jobs:search:x", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	ok, err := r.SetIfNotExists(ctx, "lock", "1", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, r.Delete(ctx, "k"))
	assert.NoError(t, r.DeleteByPattern(ctx, "jobs:*"))
	assert.NoError(t, r.Close())
}

func TestRedis_NilReceiver(t *testing.T) {
	var r *Redis
	hit, err := r.GetJSON(context.Background(), "k", &struct{}{})
	assert.NoError(t, err)
	assert.False(t, hit)
}
