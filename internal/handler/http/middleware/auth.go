package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type identityKey struct{}

// AuthRequired rejects requests without a verified access token and stores
// the caller's auth.Identity in the request context. It expects
// jwtauth.Verifier to run first.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claimsMap, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		claims, err := jwt.ClaimsFromMap(claimsMap)
		if err != nil || claims.Type != jwt.TokenTypeAccess {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		identity := auth.Identity{EmployeeID: claims.EmployeeID, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the caller, or the zero Identity when the
// request was not authenticated.
func IdentityFromContext(ctx context.Context) auth.Identity {
	identity, _ := ctx.Value(identityKey{}).(auth.Identity)
	return identity
}
