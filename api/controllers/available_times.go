package controllers

import (
	"net/http"

	"github.com/ecoelite/booking-backend/api/responses"
	"github.com/ecoelite/booking-backend/internal/scheduling"
	"github.com/ecoelite/booking-backend/pkg/logger"
)

// AvailableTimes answers GET /available-times?date=YYYY-MM-DD.
func AvailableTimes(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := scheduling.AvailableTimes(r.URL.Query().Get("date"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
