package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/onairhq/onair/internal/auth"
)

// Auth validates the Bearer token and stores the caller's identity in the
// request context. Requests without a valid token are rejected; there is no
// anonymous fallthrough, so handlers behind this middleware can rely on an
// identity being present.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := extractBearer(r)
			if tok == "" {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"missing or invalid credentials"}`, http.StatusUnauthorized)
				return
			}

			ctx, ok := authenticate(r.Context(), tok, jwtSecret)
			if !ok {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"missing or invalid credentials"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return header[7:]
	}
	return ""
}

func authenticate(ctx context.Context, tokenStr, secret string) (context.Context, bool) {
	claims, err := auth.VerifyToken(secret, tokenStr)
	if err != nil {
		return ctx, false
	}

	ident, err := claims.Identity()
	if err != nil {
		return ctx, false
	}

	return context.WithValue(ctx, ContextKeyIdentity, ident), true
}
