// Package metrics defines the custom Prometheus metrics of the accounts API.
// It is the single source of truth for metric names, labels and help
// strings. HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/projectlv/accounts/internal/core/domain"
)

const namespace = "accounts"

// ── Credential operations ─────────────────────────────────────────────────────

// AuthOperationsTotal counts credential operations by outcome.
// Labels:
//   - operation: register, login, reset_request, reset_redeem, change_password
//   - outcome: "success", "rejected" (caller error) or "error" (dependency failure)
var AuthOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_operations_total",
		Help:      "Total number of credential operations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// GateRejectionsTotal counts requests turned away by the Auth middleware.
// Label:
//   - reason: missing, malformed_header, invalid, expired, inactive, error
var GateRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_gate_rejections_total",
		Help:      "Total number of requests rejected by the auth gate.",
	},
	[]string{"reason"},
)

// RateLimitedTotal counts requests refused by a rate limiter.
// Label:
//   - scope: the limited route group (e.g. "forgot_password")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests refused by a rate limiter.",
	},
	[]string{"scope"},
)

// ── Reset tokens ──────────────────────────────────────────────────────────────

// ResetTokensExpiredTotal counts expired reset tokens removed by the janitor.
var ResetTokensExpiredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_tokens_expired_total",
		Help:      "Total number of expired password-reset tokens cleared by the janitor.",
	},
)

// ObserveAuth records the outcome of one credential operation.
func ObserveAuth(operation string, err error) {
	AuthOperationsTotal.WithLabelValues(operation, Outcome(err)).Inc()
}

// Outcome buckets an operation error into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrDependency):
		return "error"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrWrongCurrentPassword),
		errors.Is(err, domain.ErrAccountInactive),
		errors.Is(err, domain.ErrInvalidOrExpiredResetToken):
		return "rejected"
	default:
		return "error"
	}
}

// RecordExpiredResetTokens is the janitor's sweep callback.
func RecordExpiredResetTokens(n int64) {
	if n > 0 {
		ResetTokensExpiredTotal.Add(float64(n))
	}
}
