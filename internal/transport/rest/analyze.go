package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/walico/walico-backend/internal/domain"
)

// receiptAnalyzer defines the minimal interface needed by AnalyzeHandler.
type receiptAnalyzer interface {
	Analyze(ctx context.Context, image io.Reader, filename string) (*domain.Extraction, error)
}

// AnalyzeHandler serves the receipt extraction endpoint.
type AnalyzeHandler struct {
	provider  receiptAnalyzer
	maxUpload int64
	log       *slog.Logger
}

// NewAnalyzeHandler creates an AnalyzeHandler. provider may be nil when no
// extraction service is configured; requests then get 503.
func NewAnalyzeHandler(provider receiptAnalyzer, maxUpload int64, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		provider:  provider,
		maxUpload: maxUpload,
		log:       logger.With("handler", "analyze"),
	}
}

// Analyze handles POST /api/analyze (multipart field "image").
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		writeError(w, http.StatusServiceUnavailable, "receipt analysis is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image field")
		return
	}
	defer file.Close()

	extraction, err := h.provider.Analyze(r.Context(), file, header.Filename)
	if err != nil {
		if errors.Is(err, domain.ErrUpstream) {
			h.log.ErrorContext(r.Context(), "receipt analysis failed", slog.String("error", err.Error()))
			writeError(w, http.StatusBadGateway, "receipt analysis failed")
			return
		}
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, extraction)
}
