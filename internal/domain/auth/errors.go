package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email, handle or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrForbidden           = errors.New("admin role required")
)
