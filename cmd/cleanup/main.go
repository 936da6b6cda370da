// Command cleanup physically removes settlements whose retention window has
// lapsed. It is intended to be invoked by an external cron job, not as an
// in-process goroutine; the /api/cron/cleanup endpoint covers hosted
// schedulers that can only make HTTP calls.
//
// Usage:
//
//	cleanup [--dry-run]
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/walico/walico-backend/internal/adapter/postgres"
	pgsettlement "github.com/walico/walico-backend/internal/adapter/postgres/settlement"
	"github.com/walico/walico-backend/internal/adapter/sqlite"
	"github.com/walico/walico-backend/internal/app"
	"github.com/walico/walico-backend/internal/config"
	"github.com/walico/walico-backend/internal/service/settlement"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report what would be deleted without deleting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var store settlement.Store
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Error("connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()
		store = pgsettlement.New(pool)
	case config.DriverSQLite:
		st, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			logger.Error("open sqlite store", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer st.Close()
		store = st
	default:
		logger.Error("unknown database driver", slog.String("driver", cfg.Database.Driver))
		os.Exit(1)
	}

	svc := settlement.NewService(logger, store, cfg.Sweep.BatchSize)

	if *dryRun {
		result, err := svc.PreviewSweep(ctx)
		if err != nil {
			logger.Error("sweep preview failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("sweep preview",
			slog.Int("would_delete", result.DeletedCount),
			slog.Int64("timestamp", result.Timestamp),
		)
		return
	}

	result, err := svc.Sweep(ctx)
	if err != nil {
		logger.Error("sweep failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("sweep completed",
		slog.Int("deleted", result.DeletedCount),
		slog.Int64("timestamp", result.Timestamp),
	)
}
