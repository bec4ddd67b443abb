package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Defaults for the login limiter.
const (
	DefaultLimit  = 5
	DefaultWindow = 15 * time.Minute
)

// Limiter decides whether an attempt identified by key may proceed. When it
// may not, retryAfter says how long until the window resets.
type Limiter interface {
	Allow(ctx context.Context, key string) (ok bool, retryAfter time.Duration, err error)
}

// redisCmds is the slice of the redis client the limiter uses; *redis.Client
// satisfies it.
type redisCmds interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// fixedWindowLimiter counts attempts per key in fixed windows backed by
// redis, so the limit holds across process restarts and replicas.
type fixedWindowLimiter struct {
	rdb    redisCmds
	limit  int64
	window time.Duration
	prefix string
}

// New creates a redis-backed fixed-window limiter. Non-positive limit or
// window fall back to the defaults.
func New(rdb redisCmds, limit int64, window time.Duration) Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &fixedWindowLimiter{rdb: rdb, limit: limit, window: window, prefix: "ratelimit:login:"}
}

// Allow increments the counter for key and reports whether the attempt is
// within the limit.
func (l *fixedWindowLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	rkey := l.prefix + key

	n, err := l.rdb.Incr(ctx, rkey).Result()
	if err != nil {
		return false, 0, err
	}
	if n == 1 {
		// First attempt in this window; start the clock.
		if err := l.rdb.Expire(ctx, rkey, l.window).Err(); err != nil {
			return false, 0, err
		}
	}
	if n <= l.limit {
		return true, 0, nil
	}

	ttl, err := l.rdb.TTL(ctx, rkey).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}
