package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
)

// AdminOnly requires the identity set by AuthRequired to carry the admin role.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := IdentityFromContext(r.Context()).RequireAdmin(); err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
