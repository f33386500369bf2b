package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiter_BurstThenDeny(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(ctx, "apply:user-1"), "request %d", i)
	}
	assert.False(t, l.Allow(ctx, "apply:user-1"))
	assert.True(t, l.Allow(ctx, "apply:user-2"))
}

func TestMemoryLimiter_DisabledAllowsAll(t *testing.T) {
	l := NewMemoryLimiter(0, time.Minute)
	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow(context.Background(), "k"))
	}
}

func TestNew_FallsBackToMemory(t *testing.T) {
	l := New(nil, 1, time.Minute, "apply", nil)
	_, ok := l.(*MemoryLimiter)
	assert.True(t, ok)
}

func TestRedisLimiter_NilIsOpen(t *testing.T) {
	var l *RedisLimiter
	assert.True(t, l.Allow(context.Background(), "k"))
	assert.Nil(t, NewRedisLimiter(nil, 1, time.Second, "", nil))
}
