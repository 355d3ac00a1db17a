package ports

import (
	"context"
	"time"
)

// RateLimiter counts hits per key inside a fixed window.
type RateLimiter interface {
	// Allow records one hit for key. When the window is exhausted it returns
	// false and the time left until the window resets.
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}
