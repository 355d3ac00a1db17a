package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/projectlv/accounts/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected and dependency errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return http.StatusConflict, "account changed concurrently, retry"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrWrongCurrentPassword):
		return http.StatusBadRequest, "current password is incorrect"
	case errors.Is(err, domain.ErrAccountInactive):
		return http.StatusForbidden, "account is inactive"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "not authorized"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, domain.ErrInvalidOrExpiredResetToken):
		return http.StatusBadRequest, "invalid or expired token"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "too many requests, please try again later"
	case errors.Is(err, domain.ErrEmailDelivery):
		logError(log, c, err, "email delivery failed")
		return http.StatusServiceUnavailable, "failed to send email, please try again later"
	case errors.Is(err, domain.ErrDependency):
		logError(log, c, err, "dependency unavailable")
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	logError(log, c, err, "unhandled error")
	return http.StatusInternalServerError, "internal server error"
}

// validationMessage strips the sentinel prefix so clients see only the
// field-level reason.
func validationMessage(err error) string {
	msg := err.Error()
	if _, reason, ok := strings.Cut(msg, domain.ErrValidation.Error()+": "); ok {
		return reason
	}
	return msg
}

func logError(log zerolog.Logger, c echo.Context, err error, msg string) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg(msg)
}
