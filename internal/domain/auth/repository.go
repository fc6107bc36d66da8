package auth

import (
	"context"
	"time"
)

// RefreshTokenRepository persists hashed refresh tokens.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, employeeID string, token string, expiresAt int64, sessionReq SessionTrackingRequest) error
	// IsRefreshTokenRevoked returns the owning employee and whether the token is revoked or expired.
	IsRefreshTokenRevoked(ctx context.Context, token string) (employeeID string, revoked bool, err error)
	RevokeRefreshToken(ctx context.Context, token string) error
	// PurgeExpired deletes tokens that expired or were revoked before cutoff.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
