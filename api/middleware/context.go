package middleware

import (
	"context"

	pkgAuth "github.com/ecoelite/booking-backend/pkg/auth"
	pkgerrors "github.com/ecoelite/booking-backend/pkg/errors"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// PrincipalFromContext returns the caller resolved by Auth, or nil on public
// routes.
func PrincipalFromContext(ctx context.Context) *pkgAuth.Principal {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxPrincipal).(*pkgAuth.Principal); ok {
		return v
	}
	return nil
}

// WithPrincipal injects the authenticated caller into the context.
func WithPrincipal(ctx context.Context, principal *pkgAuth.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, principal)
}

// RequirePrincipal is PrincipalFromContext for handlers mounted behind Auth.
func RequirePrincipal(ctx context.Context) (*pkgAuth.Principal, error) {
	principal := PrincipalFromContext(ctx)
	if principal == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return principal, nil
}
