package ports

import (
	"context"

	"github.com/projectlv/accounts/internal/core/domain"
)

// UpdateProfileInput carries the self-service profile fields.
type UpdateProfileInput struct {
	Fullname *string
	Email    *string
}

// UserPage is one page of the user listing.
type UserPage struct {
	Users []*domain.User
	Total int64
	Page  int
	Limit int
}

// UserService handles profile reads/updates and privileged role management.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error)
	ListUsers(ctx context.Context, filter ListUsersFilter) (*UserPage, error)
	UpdateRole(ctx context.Context, actorID, userID string, role domain.Role) (*domain.User, error)
	SetActive(ctx context.Context, actorID, userID string, active bool) (*domain.User, error)
}
