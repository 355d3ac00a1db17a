package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/projectlv/accounts/internal/core/domain"
	"github.com/projectlv/accounts/internal/core/ports"
	"github.com/projectlv/accounts/internal/core/security"
)

// DefaultResetTokenTTL bounds how long a reset link stays usable.
const DefaultResetTokenTTL = time.Hour

// ResetOptions tunes ResetService.
type ResetOptions struct {
	TokenTTL    time.Duration
	FrontendURL string
}

// ResetService runs the reset-token protocol:
//
//	NoPendingReset -> PendingReset -> Redeemed | Expired | Invalidated
//
// Only the SHA-256 of a token is persisted.
type ResetService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	mailer ports.Mailer
	log    zerolog.Logger
	opts   ResetOptions
	now    func() time.Time
	newTok func() (token, hash string, err error)
}

func NewResetService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	mailer ports.Mailer,
	log zerolog.Logger,
	opts ResetOptions,
) *ResetService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = DefaultResetTokenTTL
	}
	if opts.FrontendURL == "" {
		opts.FrontendURL = "http://localhost:3000"
	}
	return &ResetService{
		repo:   repo,
		hasher: hasher,
		mailer: mailer,
		log:    log,
		opts:   opts,
		now:    time.Now,
		newTok: security.NewResetToken,
	}
}

// RequestReset issues a reset token for a known email and emails the link.
// If delivery fails the token is withdrawn before returning, so no live token
// exists without a matching email.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	email, err := validateEmail(email)
	if err != nil {
		return err
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, hash, err := s.newTok()
	if err != nil {
		return err
	}
	expiry := s.now().UTC().Add(s.opts.TokenTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, hash, expiry); err != nil {
		return err
	}

	msg, err := composeResetEmail(user.Email, user.Fullname, resetLink(s.opts.FrontendURL, token), s.opts.TokenTTL)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		return s.invalidate(ctx, user.ID, hash, err)
	}

	s.log.Info().Str("user_id", user.ID).Time("expires_at", expiry).Msg("password reset requested")
	return nil
}

// invalidate withdraws the pending token after a failed send. The clear is
// conditional on the hash, so a newer concurrent request survives.
func (s *ResetService) invalidate(ctx context.Context, userID, hash string, cause error) error {
	s.log.Error().Err(cause).Str("user_id", userID).Msg("reset email failed, invalidating token")

	// The request context may already be done; the clear must still run.
	clearCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.repo.ClearResetToken(clearCtx, userID, hash); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to invalidate reset token")
		return fmt.Errorf("%w: %w", domain.ErrEmailDelivery, errors.Join(cause, err))
	}
	return fmt.Errorf("%w: %w", domain.ErrEmailDelivery, cause)
}

// RedeemReset sets a new password for the holder of a live reset token.
// Wrong and expired tokens both fail with domain.ErrInvalidOrExpiredResetToken.
func (s *ResetService) RedeemReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return domain.ErrInvalidOrExpiredResetToken
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user, err := s.repo.RedeemResetToken(ctx, security.HashResetToken(token), s.now().UTC(), hash)
	if err != nil {
		return err
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset redeemed")
	return nil
}
