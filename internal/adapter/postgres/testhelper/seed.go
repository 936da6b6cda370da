package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/walico/walico-backend/internal/domain"
)

// SeedSettlement inserts a pending settlement with sane defaults and returns it.
// Callers can adjust fields before insertion via mutate functions.
func SeedSettlement(t *testing.T, pool *pgxpool.Pool, mutate ...func(*domain.Settlement)) domain.Settlement {
	t.Helper()
	ctx := context.Background()

	now := time.Now().Unix()
	store := "Test Store"
	s := domain.Settlement{
		ID:            uuid.New(),
		StoreName:     &store,
		TotalAmount:   8600,
		RequestAmount: 4300,
		Items: []domain.LineItem{
			{Name: "Bento", Price: 4300, Assignment: domain.AssignmentSplit},
			{Name: "Salad", Price: 4300, Assignment: domain.AssignmentSplit},
		},
		Status:    domain.StatusPending,
		CreatedAt: now,
		ExpiresAt: now + domain.RetentionSeconds,
	}

	for _, fn := range mutate {
		fn(&s)
	}

	itemsJSON, err := json.Marshal(s.Items)
	if err != nil {
		t.Fatalf("testhelper: SeedSettlement marshal items: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO settlements (id, store_name, total_amount, request_amount, items, receipt_image_url, status, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.StoreName, s.TotalAmount, s.RequestAmount, itemsJSON, s.ReceiptImageURL, string(s.Status), s.CreatedAt, s.ExpiresAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSettlement insert: %v", err)
	}

	return s
}

// SeedExpiredSettlement inserts a settlement whose retention window already
// passed. Useful for sweeper and expiry-gate tests.
func SeedExpiredSettlement(t *testing.T, pool *pgxpool.Pool) domain.Settlement {
	t.Helper()
	return SeedSettlement(t, pool, func(s *domain.Settlement) {
		s.CreatedAt = time.Now().Unix() - domain.RetentionSeconds - 3600
		s.ExpiresAt = s.CreatedAt + domain.RetentionSeconds
	})
}
