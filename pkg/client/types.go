package client

import "github.com/walico/walico-backend/internal/domain"

// Sentinel errors the SDK maps API responses onto. They are the server's own
// sentinels, re-exported so consumers can errors.Is against them without
// reaching into internal packages.
var (
	ErrNotFound     = domain.ErrNotFound
	ErrGone         = domain.ErrGone
	ErrAlreadyPaid  = domain.ErrAlreadyPaid
	ErrValidation   = domain.ErrValidation
	ErrUnauthorized = domain.ErrUnauthorized
	ErrUpstream     = domain.ErrUpstream
)

// Assignment values for LineItem. An empty assignment means split.
const (
	AssignmentSelf  = "self"
	AssignmentOther = "other"
	AssignmentSplit = "split"
)

// LineItem is a single receipt line in a settlement.
type LineItem struct {
	Name       string `json:"name"`
	Price      int    `json:"price"`
	Assignment string `json:"assignment,omitempty"`
}

// Extraction is the structured result of receipt analysis.
type Extraction struct {
	StoreName   *string          `json:"store_name"`
	Date        string           `json:"date"`
	Items       []ExtractionItem `json:"items"`
	TotalAmount int              `json:"total_amount"`
}

// ExtractionItem is a single extracted receipt line.
type ExtractionItem struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

func toDomainItems(items []LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, it := range items {
		out[i] = domain.LineItem{
			Name:       it.Name,
			Price:      it.Price,
			Assignment: domain.Assignment(it.Assignment),
		}
	}
	return out
}
