package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestResetTokenJanitor_Sweep(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	ctx := context.Background()
	env.register(t, "Alice", "alice@example.com", "secret1")
	env.register(t, "Bob", "bob@example.com", "secret1")

	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env.reset.now = fixedClock(issued)
	_ = env.reset.RequestReset(ctx, "alice@example.com")
	env.reset.now = fixedClock(issued.Add(50 * time.Minute))
	_ = env.reset.RequestReset(ctx, "bob@example.com")

	var cleared int64
	j := NewResetTokenJanitor(env.repo, zerolog.Nop(), func(n int64) { cleared += n })
	j.now = fixedClock(issued.Add(90 * time.Minute))
	j.Sweep(ctx)

	if cleared != 1 {
		t.Fatalf("cleared = %d, want 1", cleared)
	}
	alice, _ := env.repo.FindByEmail(ctx, "alice@example.com")
	bob, _ := env.repo.FindByEmail(ctx, "bob@example.com")
	if alice.ResetTokenHash != nil {
		t.Fatalf("expired token not cleared")
	}
	if bob.ResetTokenHash == nil {
		t.Fatalf("live token cleared")
	}
}

func TestResetTokenJanitor_RunStopsOnCancel(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})

	var sweeps atomic.Int64
	j := NewResetTokenJanitor(env.repo, zerolog.Nop(), func(int64) { sweeps.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for sweeps.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("janitor did not tick")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("janitor did not stop after cancel")
	}
}
