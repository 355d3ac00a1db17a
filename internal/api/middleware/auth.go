package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/projectlv/accounts/internal/api/metrics"
	"github.com/projectlv/accounts/internal/core/domain"
)

// Context keys set by Auth.
const (
	ClaimsKey = "claims"
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// Authenticator verifies a raw session token.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*domain.Claims, error)
}

// Auth admits requests that carry a valid session token, taken from the
// Authorization header or, failing that, from the named cookie.
func Auth(authn Authenticator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := tokenFromRequest(c, cookieName)
			if err != nil {
				metrics.GateRejectionsTotal.WithLabelValues("malformed_header").Inc()
				return err
			}

			claims, err := authn.Authenticate(c.Request().Context(), raw)
			if err != nil {
				metrics.GateRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
				return err
			}

			c.Set(ClaimsKey, claims)
			c.Set(UserIDKey, claims.UserID)
			c.Set(RoleKey, string(claims.Role))

			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by Auth.
func ClaimsFrom(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*domain.Claims)
	return claims, ok && claims != nil
}

func tokenFromRequest(c echo.Context, cookieName string) (string, error) {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
			return "", domain.ErrTokenMalformed
		}
		return token, nil
	}

	if cookieName == "" {
		return "", nil
	}
	cookie, err := c.Cookie(cookieName)
	if err != nil {
		return "", nil
	}
	return cookie.Value, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return "missing"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrAccountInactive):
		return "inactive"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid"
	default:
		return "error"
	}
}
