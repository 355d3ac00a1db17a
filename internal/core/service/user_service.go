package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/projectlv/accounts/internal/core/domain"
	"github.com/projectlv/accounts/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// UserService handles profile reads and updates plus the admin-only role and
// activation changes. None of these touch the password hash.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile changes fullname and/or email. A taken email surfaces as
// domain.ErrEmailTaken from the store.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ports.UpdateProfileInput) (*domain.User, error) {
	var patch ports.UserPatch
	if in.Fullname != nil {
		fullname, err := validateFullname(*in.Fullname)
		if err != nil {
			return nil, err
		}
		patch.Fullname = &fullname
	}
	if in.Email != nil {
		email, err := validateEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		patch.Email = &email
	}
	if patch.Empty() {
		return nil, domain.Validationf("nothing to update")
	}

	updated, err := s.repo.UpdateFields(ctx, userID, patch)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Msg("profile updated")
	return updated, nil
}

// ListUsers returns one page of users, newest first.
func (s *UserService) ListUsers(ctx context.Context, filter ports.ListUsersFilter) (*ports.UserPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultPageLimit
	case filter.Limit > maxPageLimit:
		filter.Limit = maxPageLimit
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.UserPage{Users: users, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// UpdateRole is a privileged operation; callers are gated to admins before
// reaching it. Admins cannot demote themselves, which keeps at least one
// admin reachable.
func (s *UserService) UpdateRole(ctx context.Context, actorID, userID string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.Validationf("role must be one of: admin editor contributor")
	}
	if actorID == userID && role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	updated, err := s.repo.UpdateFields(ctx, userID, ports.UserPatch{Role: &role})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("actor_id", actorID).Str("user_id", userID).Str("role", string(role)).Msg("role updated")
	return updated, nil
}

// SetActive enables or disables an account. Admins cannot disable themselves.
func (s *UserService) SetActive(ctx context.Context, actorID, userID string, active bool) (*domain.User, error) {
	if actorID == userID && !active {
		return nil, domain.ErrForbidden
	}

	updated, err := s.repo.UpdateFields(ctx, userID, ports.UserPatch{IsActive: &active})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("actor_id", actorID).Str("user_id", userID).Bool("active", active).Msg("activation changed")
	return updated, nil
}
