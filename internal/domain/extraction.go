package domain

import (
	"strings"
	"time"
)

// Extraction is the structured result of receipt OCR, as produced by the
// AI extraction collaborator. The collaborator is instructed to fold
// discounts into prices, drop subtotal/tax lines, null out unreadable
// fields, and strip unit-price and weight noise from item names.
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

// Validate checks the extraction against the contract the collaborator is
// expected to honor. A violation means the upstream broke the contract,
// not that the caller sent bad input.
func (e *Extraction) Validate() error {
	var errs []FieldError

	if e.Date != "" {
		if _, err := time.Parse("2006-01-02", e.Date); err != nil {
			errs = append(errs, FieldError{Field: "date", Message: "must be YYYY-MM-DD"})
		}
	}
	if e.TotalAmount < 0 {
		errs = append(errs, FieldError{Field: "total_amount", Message: "must be non-negative"})
	}
	for _, item := range e.Items {
		if item.Price < 0 {
			errs = append(errs, FieldError{Field: "items", Message: "price must be non-negative"})
			break
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// LineItems converts the extraction into editable line items with the
// default split assignment. Names are trimmed.
func (e *Extraction) LineItems() []LineItem {
	items := make([]LineItem, len(e.Items))
	for i, it := range e.Items {
		items[i] = LineItem{
			Name:       strings.TrimSpace(it.Name),
			Price:      it.Price,
			Assignment: AssignmentSplit,
		}
	}
	return items
}
