package controllers

import (
	"net/http"

	"github.com/ecoelite/booking-backend/api/middleware"
	"github.com/ecoelite/booking-backend/api/responses"
	"github.com/ecoelite/booking-backend/api/validators"
	"github.com/ecoelite/booking-backend/internal/addresses"
	"github.com/ecoelite/booking-backend/internal/clients"
	pkgerrors "github.com/ecoelite/booking-backend/pkg/errors"
	"github.com/ecoelite/booking-backend/pkg/logger"
)

// ProfileView returns the caller's profile and address book.
func ProfileView(svc clients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		principal, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Profile(r.Context(), principal.ClientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// ProfileAddAddress adds an address to the caller's address book. Payloads
// naming a client id are rejected as unknown fields.
func ProfileAddAddress(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		principal, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addresses.CreateAddressRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Add(r.Context(), principal.ClientID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}
