package settlement

import (
	"strings"

	"github.com/walico/walico-backend/internal/domain"
)

// CreateInput holds the parameters for creating a settlement.
// TotalAmount and RequestAmount arrive pre-computed; the calculator runs
// wherever the split was assembled (client SDK or caller).
type CreateInput struct {
	StoreName       *string
	TotalAmount     int
	RequestAmount   int
	Items           []domain.LineItem
	ReceiptImageURL *string
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.TotalAmount <= 0 {
		errs = append(errs, domain.FieldError{Field: "total_amount", Message: "must be positive"})
	}
	if i.RequestAmount <= 0 {
		errs = append(errs, domain.FieldError{Field: "request_amount", Message: "must be positive"})
	}

	for _, item := range i.Items {
		if item.Price < 0 {
			errs = append(errs, domain.FieldError{Field: "items", Message: "price must be non-negative"})
			break
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
