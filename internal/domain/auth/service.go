package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, sessionTrackReq SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, caller Identity) (MeResponse, error)
}
