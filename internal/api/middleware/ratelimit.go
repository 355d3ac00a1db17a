package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/projectlv/accounts/internal/api/metrics"
	"github.com/projectlv/accounts/internal/core/domain"
	"github.com/projectlv/accounts/internal/core/ports"
)

// RateLimit caps requests per client IP for one route scope. When the limiter
// itself fails the request is let through and a warning is logged.
func RateLimit(limiter ports.RateLimiter, scope string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			allowed, retryAfter, err := limiter.Allow(c.Request().Context(), scope+":"+ip)
			if err != nil {
				log.Warn().Err(err).Str("scope", scope).Str("ip", ip).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !allowed {
				metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
				log.Warn().
					Str("scope", scope).
					Str("ip", ip).
					Str("path", c.Request().URL.Path).
					Msg("rate limit exceeded")
				secs := int(math.Ceil(retryAfter.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
				return domain.ErrRateLimited
			}
			return next(c)
		}
	}
}
