package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RetentionSeconds is the fixed lifetime of a settlement:
// expires_at == created_at + RetentionSeconds, always.
const RetentionSeconds int64 = 7 * 24 * 60 * 60

// LineItem is a single receipt line. An item only counts toward totals when
// it is valid (non-empty name and positive price); drafts may be empty
// transiently while the payer is still editing.
type LineItem struct {
	Name       string     `json:"name"`
	Price      int        `json:"price"`
	Assignment Assignment `json:"assignment,omitempty"`
}

// Valid reports whether the item counts toward totals.
func (i LineItem) Valid() bool {
	return strings.TrimSpace(i.Name) != "" && i.Price > 0
}

// Settlement is one shared-bill split request. RequestAmount is fixed at
// creation and never recomputed; only Status ever mutates.
type Settlement struct {
	ID              uuid.UUID
	StoreName       *string
	TotalAmount     int
	RequestAmount   int
	Items           []LineItem
	ReceiptImageURL *string
	Status          Status
	CreatedAt       int64 // Unix seconds
	ExpiresAt       int64 // Unix seconds, CreatedAt + RetentionSeconds
}

// Expired reports whether the settlement is logically dead at the given
// instant. A logically dead record is unreachable regardless of whether the
// sweeper has physically deleted it yet.
func (s *Settlement) Expired(now int64) bool {
	return now >= s.ExpiresAt
}

// Date returns the creation date as YYYY-MM-DD in UTC.
func (s *Settlement) Date() string {
	return time.Unix(s.CreatedAt, 0).UTC().Format("2006-01-02")
}
