package ports

import (
	"context"
	"time"

	"github.com/projectlv/accounts/internal/core/domain"
)

// RegisterInput is the signup payload.
type RegisterInput struct {
	Fullname string
	Email    string
	Password string
}

// Session is a freshly minted token and the account it belongs to.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService covers registration, login and session verification.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	Authenticate(ctx context.Context, rawToken string) (*domain.Claims, error)
}

// ResetService runs the password-reset token protocol.
type ResetService interface {
	RequestReset(ctx context.Context, email string) error
	RedeemReset(ctx context.Context, token, newPassword string) error
}
