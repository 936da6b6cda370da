// Package settlement implements the settlement repository using PostgreSQL.
package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/walico/walico-backend/internal/adapter/postgres"
	"github.com/walico/walico-backend/internal/domain"
)

const table = "settlements"

var columns = []string{
	"id", "store_name", "total_amount", "request_amount",
	"items", "receipt_image_url", "status", "created_at", "expires_at",
}

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides settlement persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new settlement repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new settlement record.
func (r *Repo) Create(ctx context.Context, s *domain.Settlement) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	itemsJSON, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("settlement marshal items: %w", err)
	}

	sql, args, err := builder.
		Insert(table).
		Columns(columns...).
		Values(s.ID, s.StoreName, s.TotalAmount, s.RequestAmount,
			itemsJSON, s.ReceiptImageURL, string(s.Status), s.CreatedAt, s.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("settlement build insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return mapError(err, "settlement", s.ID)
	}

	return nil
}

// MarkPaid transitions a pending settlement to paid. The status check is part
// of the UPDATE predicate, so concurrent calls cannot double-apply. When no
// row is updated the settlement is re-read to distinguish a missing record
// (domain.ErrNotFound) from one that is already paid (domain.ErrAlreadyPaid).
func (r *Repo) MarkPaid(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := builder.
		Update(table).
		Set("status", string(domain.StatusPaid)).
		Where(squirrel.Eq{"id": id, "status": string(domain.StatusPending)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("settlement build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err, "settlement", id)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == domain.StatusPaid {
		return fmt.Errorf("settlement %s: %w", id, domain.ErrAlreadyPaid)
	}

	// The row existed and was pending on re-read; a concurrent writer raced us.
	return fmt.Errorf("settlement %s: concurrent update", id)
}

// DeleteExpiredBefore removes settlements whose retention window ended
// strictly before the given unix timestamp, up to batchSize rows per call.
// A record with expires_at == now survives the sweep.
// Returns the count of deleted settlements.
// May delete many records; does not use a transaction.
func (r *Repo) DeleteExpiredBefore(ctx context.Context, now int64, batchSize int) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	// squirrel does not support DELETE ... LIMIT on PostgreSQL, so the batch
	// bound goes through a subquery on the primary key.
	sql := `DELETE FROM settlements
	        WHERE id IN (SELECT id FROM settlements WHERE expires_at < $1 ORDER BY expires_at LIMIT $2)`

	tag, err := q.Exec(ctx, sql, now, batchSize)
	if err != nil {
		return 0, mapError(err, "settlement", uuid.Nil)
	}

	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a settlement by ID regardless of its retention state.
// Expiry is a read-side concern and is enforced by the service layer.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Settlement, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := builder.
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("settlement build select: %w", err)
	}

	row := q.QueryRow(ctx, sql, args...)
	s, err := scanSettlement(row)
	if err != nil {
		return nil, mapError(err, "settlement", id)
	}

	return s, nil
}

// ListExpiredBefore returns the settlements whose retention window ended
// strictly before the given unix timestamp, oldest expiry first. Used for
// sweep dry runs.
func (r *Repo) ListExpiredBefore(ctx context.Context, now int64) ([]*domain.Settlement, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := builder.
		Select(columns...).
		From(table).
		Where(squirrel.Lt{"expires_at": now}).
		OrderBy("expires_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("settlement build list: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "settlement", uuid.Nil)
	}
	defer rows.Close()

	var out []*domain.Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, mapError(err, "settlement", uuid.Nil)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "settlement", uuid.Nil)
	}

	return out, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	// pgx.ErrNoRows -> domain.ErrNotFound
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	// PgError codes
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	// Everything else: wrap with context
	return fmt.Errorf("%s %s: %w", entity, id, err)
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

// scanSettlement maps a settlements row into a domain.Settlement.
func scanSettlement(row pgx.Row) (*domain.Settlement, error) {
	var (
		s         domain.Settlement
		itemsJSON []byte
		status    string
	)

	err := row.Scan(&s.ID, &s.StoreName, &s.TotalAmount, &s.RequestAmount,
		&itemsJSON, &s.ReceiptImageURL, &status, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return nil, err
	}

	s.Status = domain.Status(status)

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &s.Items); err != nil {
			return nil, fmt.Errorf("settlement %s unmarshal items: %w", s.ID, err)
		}
	}

	return &s, nil
}
