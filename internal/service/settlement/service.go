// Package settlement implements the settlement lifecycle: creating records,
// gating reads on the retention window, processing payment confirmations,
// and sweeping expired records.
package settlement

import (
	"context"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/walico/walico-backend/internal/domain"
)

// DefaultSweepBatchSize bounds how many rows a single sweep statement removes.
const DefaultSweepBatchSize = 500

// Store is the persistence contract the service depends on. Both the
// PostgreSQL repository and the SQLite store satisfy it.
type Store interface {
	Create(ctx context.Context, s *domain.Settlement) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Settlement, error)
	MarkPaid(ctx context.Context, id uuid.UUID) error
	DeleteExpiredBefore(ctx context.Context, now int64, batchSize int) (int, error)
	ListExpiredBefore(ctx context.Context, now int64) ([]*domain.Settlement, error)
}

// Service provides settlement operations.
type Service struct {
	store      Store
	log        *slog.Logger
	now        func() time.Time
	sweepBatch int
}

// NewService creates a new settlement service.
func NewService(log *slog.Logger, store Store, sweepBatch int) *Service {
	if sweepBatch <= 0 {
		sweepBatch = DefaultSweepBatchSize
	}
	return &Service{
		store:      store,
		log:        log.With("service", "settlement"),
		now:        time.Now,
		sweepBatch: sweepBatch,
	}
}
