// Package ratelimit provides fixed-window per-key limits backed by Redis,
// with an in-process token bucket when Redis is not available.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	script *redis.Script
	logger *zap.Logger
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration, prefix string, logger *zap.Logger) *RedisLimiter {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: prefix,
		script: redis.NewScript(rateLimitScript),
		logger: logger,
	}
}

// Allow fails open: a Redis error lets the request through.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	if l.limit <= 0 || l.window <= 0 || key == "" {
		return true
	}
	redisKey := key
	if l.prefix != "" {
		redisKey = l.prefix + ":" + key
	}
	ttl := l.window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{redisKey}, ttl, l.limit).Int64()
	if err != nil {
		l.logger.Warn("rate limit check failed", zap.String("key", redisKey), zap.Error(err))
		return true
	}
	return allowed == 1
}

// MemoryLimiter keeps one token bucket per key refilling limit tokens per
// window with a burst of limit.
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    int
	window   time.Duration
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{limiters: make(map[string]*rate.Limiter), limit: limit, window: window}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) bool {
	if l == nil || l.limit <= 0 || l.window <= 0 || key == "" {
		return true
	}
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		every := rate.Every(l.window / time.Duration(l.limit))
		lim = rate.NewLimiter(every, l.limit)
		l.limiters[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// New returns a Redis limiter when client is set, otherwise a MemoryLimiter.
func New(client *redis.Client, limit int, window time.Duration, prefix string, logger *zap.Logger) Limiter {
	if client != nil {
		return NewRedisLimiter(client, limit, window, prefix, logger)
	}
	return NewMemoryLimiter(limit, window)
}
