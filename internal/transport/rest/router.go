package rest

import (
	"log/slog"
	"net/http"

	"github.com/walico/walico-backend/internal/config"
	"github.com/walico/walico-backend/internal/metrics"
	"github.com/walico/walico-backend/internal/transport/middleware"
)

// NewRouter builds the HTTP routing table and wraps it in the middleware
// chain. analyzer may be nil when no extraction service is configured; rl
// may be nil to disable rate limiting.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	svc settlementService,
	sweep sweeper,
	analyzer receiptAnalyzer,
	db dbPinger,
	m *metrics.Metrics,
	rl *middleware.RateLimiter,
	version string,
) http.Handler {
	settlements := NewSettlementHandler(svc, cfg.ShareURL, m, logger)
	analyze := NewAnalyzeHandler(analyzer, cfg.Server.MaxUploadBytes, logger)
	cron := NewCronHandler(sweep, cfg.Sweep.Secret, m, logger)
	health := NewHealthHandler(db, version)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/transactions", settlements.Create)
	mux.HandleFunc("GET /api/transactions/{id}", settlements.Get)
	mux.HandleFunc("PATCH /api/transactions/{id}/status", settlements.UpdateStatus)

	mux.HandleFunc("POST /api/analyze", analyze.Analyze)

	mux.HandleFunc("GET /api/cron/cleanup", cron.Cleanup)
	mux.HandleFunc("POST /api/cron/cleanup", cron.Cleanup)

	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)

	mux.Handle("GET /metrics", m.Handler())

	mws := []middleware.Middleware{
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(m),
	}
	if rl != nil && cfg.RateLimit.Enabled {
		mws = append(mws, rl.Limit(cfg.RateLimit.Limit, cfg.RateLimit.Window))
	}

	return middleware.Chain(mws...)(mux)
}
