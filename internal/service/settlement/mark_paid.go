package settlement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/walico/walico-backend/internal/domain"
)

// MarkPaid confirms payment for a pending settlement. The retention gate runs
// first: an expired record returns domain.ErrGone regardless of its status.
// The store's conditional update guarantees exactly one winner under
// concurrent confirmations; losers get domain.ErrAlreadyPaid.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (*domain.Settlement, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.Expired(s.now().Unix()) {
		return nil, fmt.Errorf("settlement %s: %w", id, domain.ErrGone)
	}

	if err := s.store.MarkPaid(ctx, id); err != nil {
		return nil, err
	}

	rec.Status = domain.StatusPaid

	s.log.InfoContext(ctx, "settlement paid",
		slog.String("settlement_id", id.String()),
		slog.Int("request_amount", rec.RequestAmount),
	)

	return rec, nil
}
