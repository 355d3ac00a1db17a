package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string              { return s.name }
func (s stubChecker) Ping(context.Context) error { return s.err }

func TestHealthHandler_Liveness(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || decode(t, rec)["status"] != "ok" {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	e := newEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	h := NewHealthHandler(stubChecker{name: "mongodb"}, stubChecker{name: "redis"})
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	h = NewHealthHandler(stubChecker{name: "mongodb"}, stubChecker{name: "redis", err: errors.New("connection refused")})
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	resp := decode(t, rec)
	deps, _ := resp["dependencies"].(map[string]any)
	redis, _ := deps["redis"].(map[string]any)
	if resp["status"] != "degraded" || redis["status"] != "unhealthy" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
