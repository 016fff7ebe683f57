package middleware

import (
	"net/http"

	"github.com/onairhq/onair/internal/domain"
)

// RequireRole returns middleware that checks whether the authenticated user's
// role is an exact member of the allowed set. There is no role hierarchy:
// super_admin passes an admin-only check only if super_admin is listed too,
// so every route names its full allowed set. Must be chained after Auth.
//
// Returns 401 Unauthorized when no identity is found in context (Auth
// middleware not applied or authentication failed). Returns 403 Forbidden
// when the role is not in the allowed set.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok || role == "" {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			if _, match := allowed[role]; !match {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"insufficient permissions"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
