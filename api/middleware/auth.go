package middleware

import (
	"context"
	"net/http"

	"github.com/ecoelite/booking-backend/api/responses"
	"github.com/ecoelite/booking-backend/api/validators"
	pkgAuth "github.com/ecoelite/booking-backend/pkg/auth"
	pkgerrors "github.com/ecoelite/booking-backend/pkg/errors"
	"github.com/ecoelite/booking-backend/pkg/logger"
)

// PrincipalResolver turns a session token into the authenticated caller.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (*pkgAuth.Principal, error)
}

// Auth reads the session token from the bearer header or the session cookie,
// resolves the caller once and seeds the request context with it.
func Auth(resolver PrincipalResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := validators.ExtractSessionToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			principal, err := resolver.ResolvePrincipal(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			if logg != nil {
				ctx = logg.WithUserID(ctx, principal.UserID.String())
				ctx = logg.WithClientID(ctx, principal.ClientID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
