package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/walico/walico-backend/internal/domain"
)

// Get returns a settlement by ID. Records past their retention window return
// domain.ErrGone even if the sweeper has not removed them yet; expiry is
// derived from the stored expires_at at read time, never stored as a status.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Settlement, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.Expired(s.now().Unix()) {
		return nil, fmt.Errorf("settlement %s: %w", id, domain.ErrGone)
	}

	return rec, nil
}
