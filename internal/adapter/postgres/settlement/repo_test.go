package settlement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/walico/walico-backend/internal/adapter/postgres/settlement"
	"github.com/walico/walico-backend/internal/adapter/postgres/testhelper"
	"github.com/walico/walico-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*settlement.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return settlement.New(pool), pool
}

// buildSettlement creates a pending domain.Settlement for testing.
func buildSettlement() domain.Settlement {
	now := time.Now().Unix()
	store := "Corner Deli"
	return domain.Settlement{
		ID:            uuid.New(),
		StoreName:     &store,
		TotalAmount:   1980,
		RequestAmount: 990,
		Items: []domain.LineItem{
			{Name: "Sandwich", Price: 980, Assignment: domain.AssignmentSplit},
			{Name: "Coffee", Price: 1000, Assignment: domain.AssignmentSplit},
		},
		Status:    domain.StatusPending,
		CreatedAt: now,
		ExpiresAt: now + domain.RetentionSeconds,
	}
}

func assertIsDomainError(t *testing.T, err, want error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error wrapping %v, got nil", want)
	}
	if !errors.Is(err, want) {
		t.Fatalf("expected error wrapping %v, got: %v", want, err)
	}
}

// ---------------------------------------------------------------------------
// Create tests
// ---------------------------------------------------------------------------

func TestRepo_Create_HappyPath(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	input := buildSettlement()

	if err := repo.Create(ctx, &input); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, input.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}

	if got.ID != input.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, input.ID)
	}
	if got.StoreName == nil || *got.StoreName != "Corner Deli" {
		t.Errorf("StoreName mismatch: got %v, want %q", got.StoreName, "Corner Deli")
	}
	if got.TotalAmount != 1980 {
		t.Errorf("TotalAmount mismatch: got %d, want 1980", got.TotalAmount)
	}
	if got.RequestAmount != 990 {
		t.Errorf("RequestAmount mismatch: got %d, want 990", got.RequestAmount)
	}
	if got.Status != domain.StatusPending {
		t.Errorf("Status mismatch: got %s, want pending", got.Status)
	}
	if len(got.Items) != 2 {
		t.Fatalf("Items length mismatch: got %d, want 2", len(got.Items))
	}
	if got.Items[0].Name != "Sandwich" || got.Items[0].Price != 980 {
		t.Errorf("Items[0] mismatch: got %+v", got.Items[0])
	}
	if got.Items[0].Assignment != domain.AssignmentSplit {
		t.Errorf("Items[0].Assignment mismatch: got %s", got.Items[0].Assignment)
	}
	if got.CreatedAt != input.CreatedAt {
		t.Errorf("CreatedAt mismatch: got %d, want %d", got.CreatedAt, input.CreatedAt)
	}
	if got.ExpiresAt != input.ExpiresAt {
		t.Errorf("ExpiresAt mismatch: got %d, want %d", got.ExpiresAt, input.ExpiresAt)
	}
}

func TestRepo_Create_NilOptionals(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	input := buildSettlement()
	input.StoreName = nil
	input.ReceiptImageURL = nil
	input.Items = nil

	if err := repo.Create(ctx, &input); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, input.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}

	if got.StoreName != nil {
		t.Errorf("StoreName should be nil, got %v", got.StoreName)
	}
	if got.ReceiptImageURL != nil {
		t.Errorf("ReceiptImageURL should be nil, got %v", got.ReceiptImageURL)
	}
	if len(got.Items) != 0 {
		t.Errorf("Items should be empty, got %v", got.Items)
	}
}

func TestRepo_Create_DuplicateID(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	input := buildSettlement()
	if err := repo.Create(ctx, &input); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := repo.Create(ctx, &input)
	assertIsDomainError(t, err, domain.ErrAlreadyExists)
}

// ---------------------------------------------------------------------------
// GetByID tests
// ---------------------------------------------------------------------------

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_GetByID_ExpiredStillReadable(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedExpiredSettlement(t, pool)

	// Retention is enforced by the service layer; the repo returns the row.
	got, err := repo.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if !got.Expired(time.Now().Unix()) {
		t.Error("seeded settlement should be past its retention window")
	}
}

// ---------------------------------------------------------------------------
// MarkPaid tests
// ---------------------------------------------------------------------------

func TestRepo_MarkPaid_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedSettlement(t, pool)

	if err := repo.MarkPaid(ctx, seeded.ID); err != nil {
		t.Fatalf("MarkPaid: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.StatusPaid {
		t.Errorf("Status = %s, want paid", got.Status)
	}
}

func TestRepo_MarkPaid_AlreadyPaid(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedSettlement(t, pool, func(s *domain.Settlement) {
		s.Status = domain.StatusPaid
	})

	err := repo.MarkPaid(ctx, seeded.ID)
	assertIsDomainError(t, err, domain.ErrAlreadyPaid)
}

func TestRepo_MarkPaid_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	err := repo.MarkPaid(ctx, uuid.New())
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_MarkPaid_SecondCallFails(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedSettlement(t, pool)

	if err := repo.MarkPaid(ctx, seeded.ID); err != nil {
		t.Fatalf("first MarkPaid: %v", err)
	}

	err := repo.MarkPaid(ctx, seeded.ID)
	assertIsDomainError(t, err, domain.ErrAlreadyPaid)
}

// ---------------------------------------------------------------------------
// Sweep tests
// ---------------------------------------------------------------------------

// The sweep tests stay sequential: a concurrent sweep from another test would
// delete rows seeded here.
func TestRepo_DeleteExpiredBefore(t *testing.T) {
	repo, pool := newRepo(t)
	ctx := context.Background()

	expired1 := testhelper.SeedExpiredSettlement(t, pool)
	expired2 := testhelper.SeedExpiredSettlement(t, pool)
	live := testhelper.SeedSettlement(t, pool)

	deleted, err := repo.DeleteExpiredBefore(ctx, time.Now().Unix(), 100)
	if err != nil {
		t.Fatalf("DeleteExpiredBefore: unexpected error: %v", err)
	}
	if deleted < 2 {
		t.Errorf("deleted = %d, want at least 2", deleted)
	}

	for _, id := range []uuid.UUID{expired1.ID, expired2.ID} {
		if _, err := repo.GetByID(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expired settlement %s should be deleted, got err %v", id, err)
		}
	}

	if _, err := repo.GetByID(ctx, live.ID); err != nil {
		t.Errorf("live settlement should survive the sweep: %v", err)
	}
}

func TestRepo_DeleteExpiredBefore_RespectsBatchSize(t *testing.T) {
	repo, pool := newRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		testhelper.SeedExpiredSettlement(t, pool)
	}

	deleted, err := repo.DeleteExpiredBefore(ctx, time.Now().Unix(), 1)
	if err != nil {
		t.Fatalf("DeleteExpiredBefore: unexpected error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want exactly 1 (batch size)", deleted)
	}
}

func TestRepo_DeleteExpiredBefore_KeepsBoundaryRecord(t *testing.T) {
	repo, pool := newRepo(t)
	ctx := context.Background()

	now := time.Now().Unix()
	boundary := testhelper.SeedSettlement(t, pool, func(s *domain.Settlement) {
		s.CreatedAt = now - domain.RetentionSeconds
		s.ExpiresAt = now
	})

	if _, err := repo.DeleteExpiredBefore(ctx, now, 100); err != nil {
		t.Fatalf("DeleteExpiredBefore: unexpected error: %v", err)
	}

	// expires_at == now is not strictly before now; the record must survive.
	if _, err := repo.GetByID(ctx, boundary.ID); err != nil {
		t.Errorf("boundary settlement should survive the sweep: %v", err)
	}
}

func TestRepo_ListExpiredBefore(t *testing.T) {
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedExpiredSettlement(t, pool)
	live := testhelper.SeedSettlement(t, pool)

	expired, err := repo.ListExpiredBefore(ctx, time.Now().Unix())
	if err != nil {
		t.Fatalf("ListExpiredBefore: unexpected error: %v", err)
	}

	var sawSeeded bool
	for _, rec := range expired {
		if rec.ID == seeded.ID {
			sawSeeded = true
		}
		if rec.ID == live.ID {
			t.Errorf("live settlement %s must not be listed as expired", live.ID)
		}
	}
	if !sawSeeded {
		t.Errorf("expected seeded expired settlement %s in listing", seeded.ID)
	}
}
