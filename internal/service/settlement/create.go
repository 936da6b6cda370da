package settlement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/walico/walico-backend/internal/domain"
)

// Create persists a new pending settlement. The retention window starts at
// the creation timestamp and is fixed for the record's lifetime.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Settlement, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	createdAt := s.now().Unix()
	rec := &domain.Settlement{
		ID:              uuid.New(),
		StoreName:       trimOrNil(input.StoreName),
		TotalAmount:     input.TotalAmount,
		RequestAmount:   input.RequestAmount,
		Items:           input.Items,
		ReceiptImageURL: trimOrNil(input.ReceiptImageURL),
		Status:          domain.StatusPending,
		CreatedAt:       createdAt,
		ExpiresAt:       createdAt + domain.RetentionSeconds,
	}

	if err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create settlement: %w", err)
	}

	s.log.InfoContext(ctx, "settlement created",
		slog.String("settlement_id", rec.ID.String()),
		slog.Int("total_amount", rec.TotalAmount),
		slog.Int("request_amount", rec.RequestAmount),
	)

	return rec, nil
}
