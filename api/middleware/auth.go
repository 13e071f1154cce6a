package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/homio-app/homio-backend/api/responses"
	pkgAuth "github.com/homio-app/homio-backend/pkg/auth"
	"github.com/homio-app/homio-backend/pkg/auth/session"
	"github.com/homio-app/homio-backend/pkg/config"
	pkgerrors "github.com/homio-app/homio-backend/pkg/errors"
	"github.com/homio-app/homio-backend/pkg/logger"
)

// TokenCookieName is the cookie login sets for browser clients.
const TokenCookieName = "token"

// Auth validates the access token and seeds the request context with the
// caller's user and session ids. The Authorization header wins over the cookie.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired"))
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxAccessID, claims.ID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest returns the bearer token, falling back to the token cookie.
func TokenFromRequest(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw != "" {
		if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			return strings.TrimSpace(raw[7:])
		}
		return raw
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
