package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/ecoelite/booking-backend/api/routes"
	"github.com/ecoelite/booking-backend/internal/addresses"
	"github.com/ecoelite/booking-backend/internal/auth"
	"github.com/ecoelite/booking-backend/internal/clients"
	"github.com/ecoelite/booking-backend/internal/orders"
	"github.com/ecoelite/booking-backend/internal/users"
	"github.com/ecoelite/booking-backend/pkg/auth/session"
	"github.com/ecoelite/booking-backend/pkg/config"
	"github.com/ecoelite/booking-backend/pkg/db"
	"github.com/ecoelite/booking-backend/pkg/logger"
	"github.com/ecoelite/booking-backend/pkg/metrics"
	"github.com/ecoelite/booking-backend/pkg/migrate"
	"github.com/ecoelite/booking-backend/pkg/redis"
	"github.com/ecoelite/booking-backend/pkg/security"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api stopped with error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessions, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	price, err := cfg.Booking.Price()
	if err != nil {
		return err
	}
	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingMetrics := metrics.NewBookingMetrics(registry)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:    users.NewRepository(dbClient.DB()),
		ProfileRepo: clients.NewRepository(dbClient.DB()),
		Sessions:    sessions,
		JWTConfig:   cfg.JWT,
		Metrics:     bookingMetrics,
	})
	if err != nil {
		return err
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		Tx:      dbClient,
		Hasher:  security.NewHasher(cfg.Password),
		Metrics: bookingMetrics,
	})
	if err != nil {
		return err
	}

	addressService, err := addresses.NewService(dbClient, dbClient.DB())
	if err != nil {
		return err
	}
	clientService, err := clients.NewService(dbClient.DB(), addressService)
	if err != nil {
		return err
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Tx:        dbClient,
		DB:        dbClient.DB(),
		Addresses: addressService,
		Price:     price,
		Attempts:  cfg.Booking.NumberAttempts,
		Location:  loc,
		Metrics:   bookingMetrics,
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, redisClient, registry,
			authService, registerService, clientService, addressService, ordersService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"addr":     addr,
		"timezone": loc.String(),
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
