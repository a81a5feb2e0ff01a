package orders

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ecoelite/booking-backend/api/middleware"
	"github.com/ecoelite/booking-backend/api/responses"
	"github.com/ecoelite/booking-backend/api/validators"
	internalorders "github.com/ecoelite/booking-backend/internal/orders"
	pkgerrors "github.com/ecoelite/booking-backend/pkg/errors"
	"github.com/ecoelite/booking-backend/pkg/logger"
)

func unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
}

// List returns the caller's orders, newest first.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}

		principal, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), principal.ClientID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// CreateForm returns the address choices and time slots for a new booking.
func CreateForm(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}

		principal, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		form, err := svc.CreateForm(r.Context(), principal.ClientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, form)
	}
}

// Create books a visit for the caller.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}

		principal, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body internalorders.CreateOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		placed, err := svc.Place(r.Context(), principal.ClientID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithOrderNumber(r.Context(), placed.Order.OrderNumber)
			logg.Info(ctx, "orders.created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, placed)
	}
}

// Detail returns one of the caller's orders by its order number.
func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}

		principal, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		number := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "orderNumber")))
		detail, err := svc.Detail(r.Context(), principal.ClientID, number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
