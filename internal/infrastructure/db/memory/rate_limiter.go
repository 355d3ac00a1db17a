package memory

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// FixedWindowLimiter allows limit hits per key per window, in process memory.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*window
	now     func() time.Time
}

// NewFixedWindowLimiter returns a limiter allowing limit hits per window.
func NewFixedWindowLimiter(limit int, win time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		limit:   limit,
		window:  win,
		buckets: make(map[string]*window),
		now:     time.Now,
	}
}

func (l *FixedWindowLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.buckets[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.sweep(now)
		w = &window{start: now}
		l.buckets[key] = w
	}

	w.count++
	if w.count > l.limit {
		return false, w.start.Add(l.window).Sub(now), nil
	}
	return true, 0, nil
}

// sweep drops closed windows so idle keys do not accumulate.
func (l *FixedWindowLimiter) sweep(now time.Time) {
	for k, w := range l.buckets {
		if now.Sub(w.start) >= l.window {
			delete(l.buckets, k)
		}
	}
}
