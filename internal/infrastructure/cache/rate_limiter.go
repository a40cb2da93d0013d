package cache

import (
	"context"
	"time"
)

// RateLimiter is a fixed-window counter keyed by caller. It allows requests
// when Redis is unavailable.
type RateLimiter struct {
	redis  *Redis
	prefix string
	limit  int
	window time.Duration
}

func NewRateLimiter(r *Redis, prefix string, limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{redis: r, prefix: prefix, limit: limit, window: window}
}

func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.limit <= 0 || !l.redis.Available() {
		return true, nil
	}
	n, err := l.redis.Incr(ctx, l.prefix+key, l.window)
	if err != nil {
		return true, err
	}
	return n <= int64(l.limit), nil
}
