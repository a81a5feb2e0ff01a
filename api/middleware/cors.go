package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the booking front end to call the API with credentials, so the
// session cookie travels with cross-origin requests.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Session-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
