package domain

import (
	"errors"
	"fmt"
)

// Input errors. ErrValidation is wrapped with a field-level message.
var (
	ErrValidation = errors.New("validation failed")
)

// Store-level outcomes.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrConcurrentUpdate = errors.New("user record changed concurrently")
)

// Credential errors. ErrInvalidCredentials never says which half was wrong.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	ErrAccountInactive      = errors.New("account is inactive")
)

// Session token errors. All of them wrap ErrInvalidToken.
var (
	ErrUnauthenticated       = errors.New("not authenticated")
	ErrInvalidToken          = errors.New("invalid token")
	ErrTokenExpired          = fmt.Errorf("%w: token expired", ErrInvalidToken)
	ErrTokenMalformed        = fmt.Errorf("%w: token malformed", ErrInvalidToken)
	ErrTokenSignatureInvalid = fmt.Errorf("%w: signature invalid", ErrInvalidToken)
)

// ErrInvalidOrExpiredResetToken is the only answer a redemption ever gives on
// failure; wrong and expired tokens are indistinguishable.
var ErrInvalidOrExpiredResetToken = errors.New("invalid or expired token")

// Dependency failures. Both wrap ErrDependency.
var (
	ErrDependency       = errors.New("dependency unavailable")
	ErrEmailDelivery    = fmt.Errorf("%w: email delivery failed", ErrDependency)
	ErrStoreUnavailable = fmt.Errorf("%w: user store unavailable", ErrDependency)
)

var (
	ErrForbidden   = errors.New("access forbidden")
	ErrRateLimited = errors.New("too many requests")
)

// Validationf builds an ErrValidation with a human-readable reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
