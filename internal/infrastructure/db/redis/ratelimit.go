package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FixedWindowLimiter counts hits per key in Redis. The first hit of a window
// gives the counter the window as its TTL; the key expiring closes the window. Key format: ratelimit:<prefix>:<key>
type FixedWindowLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// NewFixedWindowLimiter allows limit hits per window for each key.
func NewFixedWindowLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		client: client,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
	}
}

// Allow increments the counter for key and reports whether it is within limit.
// INCR and EXPIRE NX run in one transaction, so a counter never exists
// without a TTL and a window cannot outlive its expiry.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := l.key(key)

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", l.prefix, err)
	}

	if incr.Val() <= l.limit {
		return true, 0, nil
	}

	retry := ttl.Val()
	if retry <= 0 {
		retry = l.window
	}
	return false, retry, nil
}

func (l *FixedWindowLimiter) key(key string) string {
	return fmt.Sprintf("ratelimit:%s:%s", l.prefix, key)
}
