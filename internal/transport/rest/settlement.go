package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/walico/walico-backend/internal/domain"
	"github.com/walico/walico-backend/internal/metrics"
	"github.com/walico/walico-backend/internal/service/settlement"
)

// settlementService defines the minimal interface needed by SettlementHandler.
type settlementService interface {
	Create(ctx context.Context, input settlement.CreateInput) (*domain.Settlement, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Settlement, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*domain.Settlement, error)
}

// SettlementHandler serves the settlement REST endpoints.
type SettlementHandler struct {
	svc      settlementService
	shareURL func(id string) string
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewSettlementHandler creates a SettlementHandler. shareURL builds the
// public link returned on create.
func NewSettlementHandler(svc settlementService, shareURL func(string) string, m *metrics.Metrics, logger *slog.Logger) *SettlementHandler {
	return &SettlementHandler{
		svc:      svc,
		shareURL: shareURL,
		metrics:  m,
		log:      logger.With("handler", "settlement"),
	}
}

type createRequest struct {
	StoreName       *string           `json:"store_name"`
	TotalAmount     int               `json:"total_amount"`
	RequestAmount   int               `json:"request_amount"`
	Items           []domain.LineItem `json:"items"`
	ReceiptImageURL *string           `json:"receipt_image_url"`
}

type createResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type settlementResponse struct {
	ID              string            `json:"id"`
	StoreName       *string           `json:"store_name"`
	Date            string            `json:"date"`
	TotalAmount     int               `json:"total_amount"`
	RequestAmount   int               `json:"request_amount"`
	Items           []domain.LineItem `json:"items"`
	ReceiptImageURL *string           `json:"receipt_image_url"`
	Status          string            `json:"status"`
	CreatedAt       int64             `json:"created_at"`
	ExpiresAt       int64             `json:"expires_at"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type statusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Create handles POST /api/transactions.
func (h *SettlementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.svc.Create(r.Context(), settlement.CreateInput{
		StoreName:       req.StoreName,
		TotalAmount:     req.TotalAmount,
		RequestAmount:   req.RequestAmount,
		Items:           req.Items,
		ReceiptImageURL: req.ReceiptImageURL,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.metrics.SettlementsCreated.Inc()
	writeJSON(w, http.StatusOK, createResponse{
		ID:  rec.ID.String(),
		URL: h.shareURL(rec.ID.String()),
	})
}

// Get handles GET /api/transactions/{id}.
func (h *SettlementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettlementResponse(rec))
}

// UpdateStatus handles PATCH /api/transactions/{id}/status. The only
// accepted transition is to "paid".
func (h *SettlementHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != domain.StatusPaid.String() {
		writeError(w, http.StatusBadRequest, "status must be \"paid\"")
		return
	}

	rec, err := h.svc.MarkPaid(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.metrics.SettlementsPaid.Inc()
	writeJSON(w, http.StatusOK, statusResponse{
		ID:     rec.ID.String(),
		Status: rec.Status.String(),
	})
}

func toSettlementResponse(rec *domain.Settlement) settlementResponse {
	return settlementResponse{
		ID:              rec.ID.String(),
		StoreName:       rec.StoreName,
		Date:            rec.Date(),
		TotalAmount:     rec.TotalAmount,
		RequestAmount:   rec.RequestAmount,
		Items:           rec.Items,
		ReceiptImageURL: rec.ReceiptImageURL,
		Status:          rec.Status.String(),
		CreatedAt:       rec.CreatedAt,
		ExpiresAt:       rec.ExpiresAt,
	}
}

func (h *SettlementHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAlreadyPaid):
		writeError(w, http.StatusBadRequest, "already paid")
	case errors.Is(err, domain.ErrGone):
		writeError(w, http.StatusGone, "expired")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
