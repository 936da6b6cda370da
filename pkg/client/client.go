// Package client is a small Go SDK for the walico settlement API.
package client

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
)

const defaultTimeout = 15 * time.Second

// Client calls the settlement API over HTTP. The zero value is not usable;
// construct with New.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client for the API at baseURL.
func New(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logger.With("component", "walico_client"),
	}
}

// CreateInput is the request payload for Create.
type CreateInput struct {
	StoreName       *string    `json:"store_name,omitempty"`
	TotalAmount     int        `json:"total_amount"`
	RequestAmount   int        `json:"request_amount"`
	Items           []LineItem `json:"items,omitempty"`
	ReceiptImageURL *string    `json:"receipt_image_url,omitempty"`
}

// Created is the response of Create.
type Created struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Settlement mirrors the API's settlement representation.
type Settlement struct {
	ID              string     `json:"id"`
	StoreName       *string    `json:"store_name"`
	Date            string     `json:"date"`
	TotalAmount     int        `json:"total_amount"`
	RequestAmount   int        `json:"request_amount"`
	Items           []LineItem `json:"items"`
	ReceiptImageURL *string    `json:"receipt_image_url"`
	Status          string     `json:"status"`
	CreatedAt       int64      `json:"created_at"`
	ExpiresAt       int64      `json:"expires_at"`
}

// Create registers a new settlement and returns its id and share link.
func (c *Client) Create(ctx context.Context, input CreateInput) (*Created, error) {
	var out Created
	if err := c.doJSON(ctx, http.MethodPost, "/api/transactions", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a settlement by id.
func (c *Client) Get(ctx context.Context, id string) (*Settlement, error) {
	var out Settlement
	if err := c.doJSON(ctx, http.MethodGet, "/api/transactions/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkPaid flips a settlement to paid.
func (c *Client) MarkPaid(ctx context.Context, id string) error {
	body := map[string]string{"status": "paid"}
	return c.doJSON(ctx, http.MethodPatch, "/api/transactions/"+id+"/status", body, nil)
}

// Analyze uploads a receipt image for extraction.
func (c *Client) Analyze(ctx context.Context, image io.Reader, filename string) (*Extraction, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("copy image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analyze", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call analyze: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var extraction Extraction
	if err := json.NewDecoder(resp.Body).Decode(&extraction); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}
	return &extraction, nil
}

// UploadFunc stores a receipt image somewhere public and returns its URL.
type UploadFunc func(ctx context.Context, image io.Reader, filename string) (string, error)

// CreateWithReceipt uploads the receipt image and creates a settlement
// referencing it. A failed upload degrades to a settlement without an
// image rather than failing the whole operation; the degradation is logged.
func (c *Client) CreateWithReceipt(ctx context.Context, input CreateInput, image io.Reader, filename string, upload UploadFunc) (*Created, error) {
	url, err := upload(ctx, image, filename)
	if err != nil {
		c.log.WarnContext(ctx, "receipt upload failed, creating settlement without image",
			slog.String("error", err.Error()),
		)
		input.ReceiptImageURL = nil
	} else {
		input.ReceiptImageURL = &url
	}
	return c.Create(ctx, input)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError maps an API error response back to a domain sentinel.
func statusError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	json.NewDecoder(resp.Body).Decode(&payload) //nolint:errcheck
	msg := payload.Error
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	case http.StatusGone:
		return fmt.Errorf("%s: %w", msg, ErrGone)
	case http.StatusBadRequest:
		if msg == "already paid" {
			return fmt.Errorf("%s: %w", msg, ErrAlreadyPaid)
		}
		return fmt.Errorf("%s: %w", msg, ErrValidation)
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", msg, ErrUnauthorized)
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return fmt.Errorf("%s: %w", msg, ErrUpstream)
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
	}
}
