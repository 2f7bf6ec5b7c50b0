package limiter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a per-key sliding-window counter. Allow reports whether
// another request fits in the window and records it when it does.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter keeps request timestamps in a sorted set per key so the
// window survives process restarts and is shared across instances.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	window time.Duration
	limit  int64
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int64, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		window: window,
		limit:  limit,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	redisKey := l.prefix + ":" + key
	windowStart := now.Add(-l.window)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	count := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis rate limit check: %w", err)
	}

	if count.Val() >= l.limit {
		return false, nil
	}

	pipe = l.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis rate limit record: %w", err)
	}

	return true, nil
}

// MemoryLimiter is a process-local fallback with the same window
// semantics, used in tests and when redis is unavailable.
type MemoryLimiter struct {
	mu       sync.Mutex
	window   time.Duration
	limit    int
	requests map[string][]time.Time
	now      func() time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		window:   window,
		limit:    limit,
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	recent := l.requests[key]
	if len(recent) >= l.limit {
		return false, nil
	}

	l.requests[key] = append(recent, now)
	return true, nil
}

// sweep prunes timestamps that fell out of the window and drops keys
// with no remaining entries, so idle keys do not accumulate forever.
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, stamps := range l.requests {
		recent := stamps[:0]
		for _, t := range stamps {
			if now.Sub(t) < l.window {
				recent = append(recent, t)
			}
		}
		if len(recent) == 0 {
			delete(l.requests, key)
		} else {
			l.requests[key] = recent
		}
	}
}
