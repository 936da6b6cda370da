package rest

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/walico/walico-backend/internal/metrics"
	"github.com/walico/walico-backend/internal/service/settlement"
)

// sweeper defines the minimal interface needed by CronHandler.
type sweeper interface {
	Sweep(ctx context.Context) (settlement.SweepResult, error)
}

// CronHandler serves the scheduled cleanup endpoint. The caller proves
// itself with a shared bearer secret.
type CronHandler struct {
	svc     sweeper
	secret  string
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewCronHandler creates a CronHandler.
func NewCronHandler(svc sweeper, secret string, m *metrics.Metrics, logger *slog.Logger) *CronHandler {
	return &CronHandler{
		svc:     svc,
		secret:  secret,
		metrics: m,
		log:     logger.With("handler", "cron"),
	}
}

type cleanupResponse struct {
	Success      bool  `json:"success"`
	DeletedCount int   `json:"deleted_count"`
	Timestamp    int64 `json:"timestamp"`
}

// Cleanup handles GET and POST /api/cron/cleanup.
func (h *CronHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" {
		h.log.ErrorContext(r.Context(), "sweep secret not configured")
		writeError(w, http.StatusInternalServerError, "cleanup is not configured")
		return
	}

	token := extractBearer(r)
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) != 1 {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.svc.Sweep(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "sweep failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.metrics.SweeperDeleted.Add(float64(result.DeletedCount))
	writeJSON(w, http.StatusOK, cleanupResponse{
		Success:      true,
		DeletedCount: result.DeletedCount,
		Timestamp:    result.Timestamp,
	})
}
