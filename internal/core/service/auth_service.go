package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/projectlv/accounts/internal/core/domain"
	"github.com/projectlv/accounts/internal/core/ports"
)

// DefaultSessionTTL is how long a session token stays valid.
const DefaultSessionTTL = time.Hour

// dummyPassword is hashed once per service so that logins for unknown emails
// still pay for one hash comparison.
const dummyPassword = "timing-equaliser"

// AuthOptions tunes AuthService.
type AuthOptions struct {
	SessionTTL time.Duration
	// RequireActive makes Authenticate re-read the user and reject
	// deactivated or deleted accounts.
	RequireActive bool
}

// AuthService implements registration, login, password change and session
// verification.
type AuthService struct {
	repo      ports.UserRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenIssuer
	log       zerolog.Logger
	opts      AuthOptions
	dummyHash string
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	log zerolog.Logger,
	opts AuthOptions,
) (*AuthService, error) {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		log:       log,
		opts:      opts,
		dummyHash: dummy,
	}, nil
}

// Register validates input, hashes the password and stores a new contributor.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	fullname, err := validateFullname(in.Fullname)
	if err != nil {
		return nil, err
	}
	email, err := validateEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Insert(ctx, &domain.User{
		Fullname:     fullname,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.DefaultRole,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login verifies credentials and mints a session token. Unknown email and
// wrong password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Info().Str("user_id", user.ID).Msg("login rejected: wrong password")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}

	token, expiresAt, err := s.tokens.Issue(domain.IdentityOf(user), s.opts.SessionTTL)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("login succeeded")
	return &ports.Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ChangePassword replaces the password after checking the current one. The
// store swaps the hash only if nobody changed it in between.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return domain.ErrWrongCurrentPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, user.PasswordHash, hash); err != nil {
		return err
	}

	s.log.Info().Str("user_id", user.ID).Msg("password changed")
	return nil
}

// Authenticate verifies a raw session token. An empty token is
// domain.ErrUnauthenticated; any verification failure wraps domain.ErrInvalidToken.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*domain.Claims, error) {
	if rawToken == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		return nil, err
	}

	if s.opts.RequireActive {
		user, err := s.repo.FindByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, domain.ErrInvalidToken
			}
			return nil, err
		}
		if !user.IsActive {
			return nil, domain.ErrAccountInactive
		}
	}
	return claims, nil
}
