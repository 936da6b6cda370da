// Package ocr fetches structured receipt data from an external extraction
// service. The upstream accepts a receipt image and returns the store name,
// purchase date, line items, and total it could read from the photo.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/walico/walico-backend/internal/config"
	"github.com/walico/walico-backend/internal/domain"
)

// Provider calls the receipt extraction API.
type Provider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider from OCR config.
func NewProvider(cfg config.OCRConfig, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "ocr"),
	}
}

// Analyze uploads a receipt image and returns the extracted fields.
// The result is best-effort: unreadable fields come back empty or zero and
// the caller treats them as a draft for the user to correct.
// Upstream failures map to domain.ErrUpstream.
func (p *Provider) Analyze(ctx context.Context, image io.Reader, filename string) (*domain.Extraction, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("ocr: create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("ocr: copy image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("ocr: close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/analyze", bytes.NewReader(body.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("ocr: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.doWithRetry(ctx, req, body.Bytes())
	if err != nil {
		p.log.ErrorContext(ctx, "ocr request failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("ocr: request failed: %w", domain.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.log.ErrorContext(ctx, "ocr unexpected status", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("ocr: unexpected status %d: %w", resp.StatusCode, domain.ErrUpstream)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ocr: read body: %w", domain.ErrUpstream)
	}

	var api apiResponse
	if err := json.Unmarshal(respBody, &api); err != nil {
		return nil, fmt.Errorf("ocr: decode json: %w", domain.ErrUpstream)
	}

	result := mapAPIResponse(api)

	p.log.DebugContext(ctx, "ocr response",
		slog.Int("items", len(result.Items)),
		slog.Int("total_amount", result.TotalAmount),
	)

	return result, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
// The request body is rebuilt for the second attempt.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	resp, err := p.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	p.log.WarnContext(ctx, "ocr retry", slog.String("reason", reason))

	// Close body from the failed attempt before retrying.
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	retryReq := req.Clone(ctx)
	retryReq.Body = io.NopCloser(bytes.NewReader(body))
	return p.httpClient.Do(retryReq)
}

// mapAPIResponse converts the wire response into a domain.Extraction.
// Items with an empty name or non-positive price are dropped here so the
// handler never serves junk line items.
func mapAPIResponse(api apiResponse) *domain.Extraction {
	result := &domain.Extraction{
		StoreName:   api.StoreName,
		Date:        api.Date,
		TotalAmount: api.TotalAmount,
		Items:       []domain.ExtractionItem{},
	}

	for _, item := range api.Items {
		name := strings.TrimSpace(item.Name)
		if name == "" || item.Price <= 0 {
			continue
		}
		result.Items = append(result.Items, domain.ExtractionItem{
			Name:  name,
			Price: item.Price,
		})
	}

	if result.TotalAmount < 0 {
		result.TotalAmount = 0
	}

	return result
}
