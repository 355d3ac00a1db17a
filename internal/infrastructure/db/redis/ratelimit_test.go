package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*FixedWindowLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewFixedWindowLimiter(client, "forgot", limit, window), mr
}

func TestFixedWindowLimiter_Allow(t *testing.T) {
	l, mr := newTestLimiter(t, 3, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _, err := l.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !ok {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}

	ok, retry, err := l.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if ok {
		t.Fatalf("fourth hit should be rejected")
	}
	if retry <= 0 || retry > 15*time.Minute {
		t.Fatalf("unexpected retryAfter %s", retry)
	}

	if ok, _, _ := l.Allow(ctx, "10.0.0.2"); !ok {
		t.Fatalf("separate keys must not share a window")
	}

	mr.FastForward(15 * time.Minute)
	if ok, _, _ := l.Allow(ctx, "10.0.0.1"); !ok {
		t.Fatalf("window should reset after expiry")
	}
}

func TestFixedWindowLimiter_KeyFormat(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	_, _, _ = l.Allow(context.Background(), "10.0.0.1")

	if !mr.Exists("ratelimit:forgot:10.0.0.1") {
		t.Fatalf("expected counter key to exist, keys: %v", mr.Keys())
	}
}

func TestFixedWindowLimiter_CounterAlwaysExpires(t *testing.T) {
	l, mr := newTestLimiter(t, 3, 15*time.Minute)
	ctx := context.Background()

	if _, _, err := l.Allow(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("allow: %v", err)
	}
	if ttl := mr.TTL("ratelimit:forgot:10.0.0.1"); ttl != 15*time.Minute {
		t.Fatalf("ttl after first hit = %s, want 15m", ttl)
	}

	// later hits keep the window's original expiry
	mr.FastForward(5 * time.Minute)
	if _, _, err := l.Allow(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("allow: %v", err)
	}
	if ttl := mr.TTL("ratelimit:forgot:10.0.0.1"); ttl != 10*time.Minute {
		t.Fatalf("ttl after second hit = %s, want 10m", ttl)
	}

	// a counter left without a TTL still gets one on the next hit
	if err := mr.Set("ratelimit:forgot:10.0.0.9", "7"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ok, retry, err := l.Allow(ctx, "10.0.0.9")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if ok {
		t.Fatalf("hit over the limit should be rejected")
	}
	if retry != 15*time.Minute {
		t.Fatalf("retryAfter = %s, want 15m", retry)
	}
	mr.FastForward(15 * time.Minute)
	if ok, _, _ := l.Allow(ctx, "10.0.0.9"); !ok {
		t.Fatalf("orphaned counter should expire with the window")
	}
}

func TestFixedWindowLimiter_RedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	if _, _, err := l.Allow(context.Background(), "10.0.0.1"); err == nil {
		t.Fatalf("expected an error when redis is unreachable")
	}
}
