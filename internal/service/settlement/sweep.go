package settlement

import (
	"context"
	"fmt"
	"log/slog"
)

// SweepResult reports the outcome of one sweep run.
type SweepResult struct {
	DeletedCount int
	Timestamp    int64
}

// Sweep deletes all settlements whose retention window has ended, in batches,
// until none remain. Idempotent: a second run at the same instant deletes
// nothing. Records with expires_at in the future are never touched; the
// filter is part of the DELETE predicate, so partial failure needs no
// rollback.
func (s *Service) Sweep(ctx context.Context) (SweepResult, error) {
	now := s.now().Unix()
	result := SweepResult{Timestamp: now}

	for {
		deleted, err := s.store.DeleteExpiredBefore(ctx, now, s.sweepBatch)
		if err != nil {
			return result, fmt.Errorf("sweep settlements: %w", err)
		}
		result.DeletedCount += deleted
		if deleted < s.sweepBatch {
			break
		}
	}

	s.log.InfoContext(ctx, "sweep completed",
		slog.Int("deleted_count", result.DeletedCount),
		slog.Int64("timestamp", result.Timestamp),
	)

	return result, nil
}

// PreviewSweep reports what a sweep at this instant would delete, without
// deleting anything.
func (s *Service) PreviewSweep(ctx context.Context) (SweepResult, error) {
	now := s.now().Unix()

	expired, err := s.store.ListExpiredBefore(ctx, now)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list expired settlements: %w", err)
	}

	return SweepResult{DeletedCount: len(expired), Timestamp: now}, nil
}
