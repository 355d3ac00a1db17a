package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/projectlv/accounts/internal/core/domain"
)

type stubLimiter struct {
	allowed    bool
	retryAfter time.Duration
	err        error
	keys       []string
}

func (l *stubLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.keys = append(l.keys, key)
	return l.allowed, l.retryAfter, l.err
}

func runRateLimit(t *testing.T, l *stubLimiter) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", nil)
	req.RemoteAddr = "203.0.113.7:41000"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := RateLimit(l, "forgot_password", zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, called, err
}

func TestRateLimit_Allows(t *testing.T) {
	l := &stubLimiter{allowed: true}
	_, called, err := runRateLimit(t, l)
	if err != nil || !called {
		t.Fatalf("request should pass: err=%v called=%v", err, called)
	}
	if len(l.keys) != 1 || l.keys[0] != "forgot_password:203.0.113.7" {
		t.Fatalf("unexpected limiter keys %v", l.keys)
	}
}

func TestRateLimit_Rejects(t *testing.T) {
	l := &stubLimiter{allowed: false, retryAfter: 1500 * time.Millisecond}
	rec, called, err := runRateLimit(t, l)
	if called {
		t.Fatalf("next called over the limit")
	}
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if got := rec.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("Retry-After = %q, want 2", got)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	l := &stubLimiter{err: errors.New("redis: connection refused")}
	_, called, err := runRateLimit(t, l)
	if err != nil || !called {
		t.Fatalf("limiter failure must not block: err=%v called=%v", err, called)
	}
}
