package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/projectlv/accounts/internal/core/domain"
)

func TestRBAC_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(RoleKey, "admin")

	called := false
	mw := RBAC(domain.RoleAdmin, domain.RoleEditor)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	for _, role := range []any{"contributor", "", nil} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if role != nil {
			c.Set(RoleKey, role)
		}

		mw := RBAC(domain.RoleAdmin)
		handler := mw(func(c echo.Context) error {
			t.Fatalf("should not reach next handler")
			return nil
		})

		if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("role %v: expected ErrForbidden, got %v", role, err)
		}
	}
}
