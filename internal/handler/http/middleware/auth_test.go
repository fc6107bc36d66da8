package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(t *testing.T, svc jwt.Service, final http.Handler) http.Handler {
	t.Helper()
	return jwtauth.Verifier(svc.JWTAuth())(AuthRequired(final))
}

func TestAuthRequired_StoresIdentity(t *testing.T) {
	svc, err := jwt.NewJWTService("middleware-secret", "1h", "24h", false)
	require.NoError(t, err)
	token, _, err := svc.GenerateAccessToken("emp-1", auth.RoleAdmin)
	require.NoError(t, err)

	var got auth.Identity
	h := chain(t, svc, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, auth.Identity{EmployeeID: "emp-1", Role: auth.RoleAdmin}, got)
}

func TestAuthRequired_Rejects(t *testing.T) {
	svc, err := jwt.NewJWTService("middleware-secret", "1h", "24h", false)
	require.NoError(t, err)
	other, err := jwt.NewJWTService("another-secret", "1h", "24h", false)
	require.NoError(t, err)

	refresh, _, err := svc.GenerateRefreshToken("emp-1")
	require.NoError(t, err)
	foreign, _, err := other.GenerateAccessToken("emp-1", auth.RoleAdmin)
	require.NoError(t, err)

	called := false
	h := chain(t, svc, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	for name, token := range map[string]string{"none": "", "refresh": refresh, "foreign signature": foreign} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
	assert.False(t, called)
}

func TestAdminOnly(t *testing.T) {
	h := AdminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		identity auth.Identity
		status   int
	}{
		{auth.Identity{}, http.StatusUnauthorized},
		{auth.Identity{EmployeeID: "emp-1", Role: auth.RoleUser}, http.StatusForbidden},
		{auth.Identity{EmployeeID: "emp-2", Role: auth.RoleAdmin}, http.StatusNoContent},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), c.identity))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, c.status, rec.Code, c.identity.Role)
	}
}
