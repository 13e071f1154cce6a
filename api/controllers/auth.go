package controllers

import (
	"net/http"
	"time"

	"github.com/homio-app/homio-backend/api/middleware"
	"github.com/homio-app/homio-backend/api/responses"
	"github.com/homio-app/homio-backend/api/validators"
	"github.com/homio-app/homio-backend/internal/auth"
	pkgAuth "github.com/homio-app/homio-backend/pkg/auth"
	"github.com/homio-app/homio-backend/pkg/config"
	pkgerrors "github.com/homio-app/homio-backend/pkg/errors"
	"github.com/homio-app/homio-backend/pkg/logger"
)

// CookieOptions controls the token cookie written at login.
type CookieOptions struct {
	Secure bool
}

// AuthSignup creates an account. The caller logs in separately.
func AuthSignup(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.SignupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Signup(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, profile)
	}
}

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, cookie CookieOptions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.TokenCookieName,
			Value:    result.AccessToken,
			Path:     "/",
			Expires:  result.ExpiresAt,
			HttpOnly: true,
			Secure:   cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		responses.WriteSuccess(w, result)
	}
}

// AuthLogout revokes the session behind the presented token, expired or not,
// and clears the cookie.
func AuthLogout(svc auth.Service, cfg config.JWTConfig, cookie CookieOptions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		token := middleware.TokenFromRequest(r)
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		claims, err := pkgAuth.ParseAccessTokenAllowExpired(cfg, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}

		if err := svc.Logout(r.Context(), claims.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.TokenCookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
