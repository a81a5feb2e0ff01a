package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecoelite/booking-backend/api/controllers"
	ordercontrollers "github.com/ecoelite/booking-backend/api/controllers/orders"
	"github.com/ecoelite/booking-backend/api/middleware"
	"github.com/ecoelite/booking-backend/internal/addresses"
	"github.com/ecoelite/booking-backend/internal/auth"
	"github.com/ecoelite/booking-backend/internal/clients"
	"github.com/ecoelite/booking-backend/internal/orders"
	"github.com/ecoelite/booking-backend/pkg/config"
	"github.com/ecoelite/booking-backend/pkg/logger"
	"github.com/ecoelite/booking-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	limiter redis.RateLimiter,
	gatherer prometheus.Gatherer,
	authService auth.Service,
	registerService auth.RegisterService,
	clientService clients.Service,
	addressService addresses.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    dbPinger,
			"redis": redisPinger,
		}))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/register", controllers.AuthRegisterForm())
	r.Get("/login", controllers.AuthLoginForm())
	r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).Post("/register", controllers.AuthRegister(registerService, logg))
	r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(authService, cfg.JWT, logg))
	r.Post("/logout", controllers.AuthLogout(authService, cfg.JWT, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authService, logg))

		r.Get("/profile", controllers.ProfileView(clientService, logg))
		r.Post("/profile", controllers.ProfileAddAddress(addressService, logg))

		r.Get("/available-times", controllers.AvailableTimes(logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(ordersService, logg))
			r.Get("/create", ordercontrollers.CreateForm(ordersService, logg))
			r.Post("/create", ordercontrollers.Create(ordersService, logg))
			r.Get("/{orderNumber}", ordercontrollers.Detail(ordersService, logg))
		})
	})

	return r
}
