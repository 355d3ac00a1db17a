package ports

import (
	"context"
	"time"

	"github.com/projectlv/accounts/internal/core/domain"
)

// UserPatch carries the profile fields an update may change. Nil fields are
// left untouched. There is deliberately no password field: password hashes
// only change through UpdatePassword and RedeemResetToken.
type UserPatch struct {
	Fullname *string
	Email    *string
	Role     *domain.Role
	IsActive *bool
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Fullname == nil && p.Email == nil && p.Role == nil && p.IsActive == nil
}

// ListUsersFilter pages through the user collection, newest first.
type ListUsersFilter struct {
	Page  int // 1-based
	Limit int // capped by the service
}

// UserRepository is the credential store. Every method is atomic for the single
// record it touches; there are no cross-record transactions.
type UserRepository interface {
	// Insert stores a new user, assigning ID and timestamps.
	// Returns domain.ErrEmailTaken when the email is already present.
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateFields applies patch and returns the updated record.
	UpdateFields(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)

	// SetResetToken stores a pending reset, replacing any previous one.
	SetResetToken(ctx context.Context, id, tokenHash string, expiry time.Time) error
	// ClearResetToken removes the pending reset only if it still holds tokenHash.
	ClearResetToken(ctx context.Context, id, tokenHash string) error
	// RedeemResetToken finds the user whose reset hash equals tokenHash and whose
	// expiry is after now, sets passwordHash and clears both reset fields in one
	// step. Returns domain.ErrInvalidOrExpiredResetToken when nothing matches.
	RedeemResetToken(ctx context.Context, tokenHash string, now time.Time, passwordHash string) (*domain.User, error)
	// UpdatePassword swaps the hash only if the stored one still equals oldHash,
	// clearing any pending reset. Returns domain.ErrConcurrentUpdate otherwise.
	UpdatePassword(ctx context.Context, id, oldHash, newHash string) error
	// ClearExpiredResetTokens drops reset fields whose expiry is not after now.
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}
