package memory

import (
	"context"
	"testing"
	"time"
)

func TestFixedWindowLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewFixedWindowLimiter(3, 15*time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if ok, _, _ := l.Allow(ctx, "1.2.3.4"); !ok {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}

	now = now.Add(5 * time.Minute)
	ok, retry, _ := l.Allow(ctx, "1.2.3.4")
	if ok {
		t.Fatalf("fourth hit should be rejected")
	}
	if retry != 10*time.Minute {
		t.Fatalf("retryAfter = %s, want 10m", retry)
	}

	if ok, _, _ := l.Allow(ctx, "5.6.7.8"); !ok {
		t.Fatalf("other keys have their own window")
	}

	now = now.Add(10 * time.Minute)
	if ok, _, _ := l.Allow(ctx, "1.2.3.4"); !ok {
		t.Fatalf("new window should allow again")
	}
}
