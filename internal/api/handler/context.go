package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/projectlv/accounts/internal/api/middleware"
	"github.com/projectlv/accounts/internal/core/domain"
)

// ctxClaims returns the session claims injected by the Auth middleware. A
// route that reaches a handler without them is misconfigured, so the caller
// gets 401 rather than a nil dereference.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok || claims.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}
