package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/projectlv/accounts/internal/core/ports"
)

// ResetTokenJanitor periodically clears reset fields whose expiry has passed.
// Redemption never matches an expired token, so this is storage hygiene only.
type ResetTokenJanitor struct {
	repo    ports.UserRepository
	log     zerolog.Logger
	now     func() time.Time
	onSweep func(cleared int64)
}

func NewResetTokenJanitor(repo ports.UserRepository, log zerolog.Logger, onSweep func(cleared int64)) *ResetTokenJanitor {
	if onSweep == nil {
		onSweep = func(int64) {}
	}
	return &ResetTokenJanitor{repo: repo, log: log, now: time.Now, onSweep: onSweep}
}

// Run sweeps once immediately and then every interval until ctx is cancelled.
func (j *ResetTokenJanitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.log.Info().Dur("interval", interval).Msg("reset token janitor started")
	j.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			j.log.Info().Msg("reset token janitor stopped")
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep clears every expired reset token once.
func (j *ResetTokenJanitor) Sweep(ctx context.Context) {
	n, err := j.repo.ClearExpiredResetTokens(ctx, j.now().UTC())
	if err != nil {
		j.log.Error().Err(err).Msg("failed to clear expired reset tokens")
		return
	}
	j.onSweep(n)
	if n > 0 {
		j.log.Debug().Int64("cleared", n).Msg("expired reset tokens cleared")
	}
}
