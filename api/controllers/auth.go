package controllers

import (
	"net/http"
	"time"

	"github.com/ecoelite/booking-backend/api/responses"
	"github.com/ecoelite/booking-backend/api/validators"
	"github.com/ecoelite/booking-backend/internal/auth"
	"github.com/ecoelite/booking-backend/pkg/config"
	pkgerrors "github.com/ecoelite/booking-backend/pkg/errors"
	"github.com/ecoelite/booking-backend/pkg/logger"
)

const sessionTokenHeader = "X-Session-Token"

// AuthRegisterForm describes the sign-up form.
func AuthRegisterForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, auth.RegisterForm())
	}
}

// AuthLoginForm describes the login form.
func AuthLoginForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, auth.LoginForm())
	}
}

// AuthRegister creates an account and its client profile. No session is
// opened; the client is redirected to the login page.
func AuthRegister(reg auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register service unavailable"))
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := reg.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthLogin wires the login endpoint into the HTTP layer. The token goes out
// in the body, a header and an HttpOnly cookie.
func AuthLogin(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
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

		w.Header().Set(sessionTokenHeader, result.Token)
		http.SetCookie(w, sessionCookie(cfg, result.Token, result.ExpiresAt))
		responses.WriteSuccess(w, result)
	}
}

// AuthLogout closes the caller's session if there is one and always answers
// with a redirect home.
func AuthLogout(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		result, err := svc.Logout(r.Context(), validators.ExtractSessionToken(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cleared := sessionCookie(cfg, "", time.Unix(0, 0))
		cleared.MaxAge = -1
		http.SetCookie(w, cleared)
		responses.WriteSuccess(w, result)
	}
}

func sessionCookie(cfg config.JWTConfig, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     validators.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
