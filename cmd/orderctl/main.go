package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ecoelite/booking-backend/internal/addresses"
	"github.com/ecoelite/booking-backend/internal/orders"
	"github.com/ecoelite/booking-backend/pkg/config"
	"github.com/ecoelite/booking-backend/pkg/db"
	"github.com/ecoelite/booking-backend/pkg/enums"
	pkgerrors "github.com/ecoelite/booking-backend/pkg/errors"
	"github.com/ecoelite/booking-backend/pkg/logger"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "orderctl"})

	_ = godotenv.Load()

	number := flag.String("order", "", "order number, e.g. EE1A2B3C4D")
	status := flag.String("status", "", "target status: confirmed|in_progress|completed|cancelled")
	flag.Parse()

	if strings.TrimSpace(*number) == "" || strings.TrimSpace(*status) == "" {
		fmt.Fprintln(os.Stderr, "usage: orderctl -order EE1A2B3C4D -status confirmed")
		os.Exit(2)
	}
	target, err := enums.ParseOrderStatus(*status)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "orderctl",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx = logg.WithFields(ctx, map[string]any{
		"order_number": *number,
		"to":           string(target),
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	price, err := cfg.Booking.Price()
	requireResource(ctx, logg, "booking price", err)

	addressService, err := addresses.NewService(dbClient, dbClient.DB())
	requireResource(ctx, logg, "address service", err)

	svc, err := orders.NewService(orders.ServiceParams{
		Tx:        dbClient,
		DB:        dbClient.DB(),
		Addresses: addressService,
		Price:     price,
		Logger:    logg,
	})
	requireResource(ctx, logg, "orders service", err)

	detail, err := svc.TransitionStatus(ctx, strings.ToUpper(strings.TrimSpace(*number)), target)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", typed.Code(), typed.Message())
			if details := typed.Details(); details != nil {
				_ = json.NewEncoder(os.Stderr).Encode(details)
			}
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	logg.Info(ctx, "order status updated")
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(detail)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
