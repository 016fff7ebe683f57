package middleware

import (
	"context"

	"github.com/onairhq/onair/internal/auth"
	"github.com/onairhq/onair/internal/domain"
)

type contextKey string

const (
	ContextKeyIdentity    contextKey = "identity"
	ContextKeyRequestMeta contextKey = "request_meta"
)

// RequestMeta carries the request facts captured before the body is consumed
// by handlers. The audit layer reads it after the response is finalized.
type RequestMeta struct {
	Method     string
	URL        string
	ClientIP   string
	DeleteBody []byte
	// ResourceID may be set by a handler whose resource id only exists once
	// the work is done (e.g. a generated file name).
	ResourceID string
}

func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	v, ok := ctx.Value(ContextKeyIdentity).(*auth.Identity)
	return v, ok
}

func RoleFromContext(ctx context.Context) (domain.Role, bool) {
	ident, ok := IdentityFromContext(ctx)
	if !ok {
		return "", false
	}
	return ident.Role, true
}

func MetaFromContext(ctx context.Context) (*RequestMeta, bool) {
	v, ok := ctx.Value(ContextKeyRequestMeta).(*RequestMeta)
	return v, ok
}
