package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

// TokenJobs keeps the refresh token table small.
type TokenJobs struct {
	refreshTokenRepo auth.RefreshTokenRepository
	clock            clock.Clock
	interval         time.Duration
}

func NewTokenJobs(refreshTokenRepo auth.RefreshTokenRepository, clk clock.Clock, interval time.Duration) *TokenJobs {
	return &TokenJobs{
		refreshTokenRepo: refreshTokenRepo,
		clock:            clk,
		interval:         interval,
	}
}

func (j *TokenJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_expired_refresh_tokens", j.interval, j.PurgeExpiredRefreshTokens)
}

// PurgeExpiredRefreshTokens deletes refresh tokens that expired or were
// revoked before now.
func (j *TokenJobs) PurgeExpiredRefreshTokens(ctx context.Context) error {
	purged, err := j.refreshTokenRepo.PurgeExpired(ctx, j.clock.Now())
	if err != nil {
		return fmt.Errorf("purge refresh tokens: %w", err)
	}
	if purged > 0 {
		slog.Info("Cron: purged refresh tokens", "count", purged)
	}
	return nil
}
