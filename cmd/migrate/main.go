package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/ecoelite/booking-backend/pkg/config"
	"github.com/ecoelite/booking-backend/pkg/db"
	"github.com/ecoelite/booking-backend/pkg/logger"
	"github.com/ecoelite/booking-backend/pkg/migrate"
)

type options struct {
	cmd     string
	dir     string
	name    string
	version string
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.cmd, "cmd", "up", "migration command: up|down|status|reset|version|create|validate")
	flag.StringVar(&opts.dir, "dir", migrate.DefaultDir, "migrations directory for create and validate")
	flag.StringVar(&opts.name, "name", "", "migration name (for create)")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	// create and validate work on the directory only and need no config.
	switch opts.cmd {
	case "create":
		if opts.name == "" {
			exit("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(opts.dir, opts.name, time.Now())
		if err != nil {
			exit("failed to create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.ValidateDir(opts.dir); err != nil {
			exit("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		exit("failed to load config: %v", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithField(context.Background(), "cmd", opts.cmd)

	if err := run(ctx, cfg, logg, opts); err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migration finished")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, opts options) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	sqlDB, err := dbClient.SQL()
	if err != nil {
		return err
	}

	switch opts.cmd {
	case "up", "down", "status", "reset":
		return migrate.Run(ctx, sqlDB, opts.cmd)
	case "version":
		if opts.version == "" {
			return fmt.Errorf("missing -version for version command")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, opts.version)
	default:
		return fmt.Errorf("unknown -cmd value %q", opts.cmd)
	}
}

func exit(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
