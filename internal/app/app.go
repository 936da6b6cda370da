package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/walico/walico-backend/internal/adapter/postgres"
	pgsettlement "github.com/walico/walico-backend/internal/adapter/postgres/settlement"
	"github.com/walico/walico-backend/internal/adapter/provider/ocr"
	"github.com/walico/walico-backend/internal/adapter/sqlite"
	"github.com/walico/walico-backend/internal/config"
	"github.com/walico/walico-backend/internal/metrics"
	"github.com/walico/walico-backend/internal/service/settlement"
	"github.com/walico/walico-backend/internal/transport/middleware"
	"github.com/walico/walico-backend/internal/transport/rest"
)

// pinger is what the health endpoints need from a store backend.
type pinger interface {
	Ping(ctx context.Context) error
}

// Run is the application entry point. It loads configuration, connects the
// configured store backend, wires the service and HTTP transport, and blocks
// until ctx is cancelled, then shuts the server down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("db_driver", cfg.Database.Driver),
	)

	var (
		store settlement.Store
		db    pinger
	)
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		store = pgsettlement.New(pool)
		db = pool
	case config.DriverSQLite:
		st, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		defer st.Close()
		store = st
		db = st
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	svc := settlement.NewService(logger, store, cfg.Sweep.BatchSize)
	m := metrics.New()

	var analyzer *ocr.Provider
	if cfg.OCR.BaseURL != "" {
		analyzer = ocr.NewProvider(cfg.OCR, logger)
	}

	var rl *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rl = middleware.NewRateLimiter(5 * time.Minute)
		defer rl.Stop()
	}

	var handler http.Handler
	if analyzer != nil {
		handler = rest.NewRouter(cfg, logger, svc, svc, analyzer, db, m, rl, BuildVersion())
	} else {
		handler = rest.NewRouter(cfg, logger, svc, svc, nil, db, m, rl, BuildVersion())
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
