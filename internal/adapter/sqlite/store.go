// Package sqlite provides a SQLite-backed settlement store for single-node
// deployments. It mirrors the PostgreSQL repository's behavior, including
// error mapping to domain sentinels.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/walico/walico-backend/internal/domain"
)

// Store implements settlement persistence using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer; the driver serializes access and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Create persists a new settlement.
func (s *Store) Create(ctx context.Context, rec *domain.Settlement) error {
	itemsJSON, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("settlement marshal items: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, store_name, total_amount, request_amount, items, receipt_image_url, status, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.StoreName, rec.TotalAmount, rec.RequestAmount,
		string(itemsJSON), rec.ReceiptImageURL, string(rec.Status), rec.CreatedAt, rec.ExpiresAt,
	)
	if err != nil {
		return mapError(err, rec.ID)
	}

	return nil
}

// GetByID returns a settlement by ID regardless of its retention state.
// Expiry is a read-side concern and is enforced by the service layer.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, store_name, total_amount, request_amount, items, receipt_image_url, status, created_at, expires_at
		 FROM settlements WHERE id = ?`,
		id.String(),
	)

	rec, err := scanSettlement(row)
	if err != nil {
		return nil, mapError(err, id)
	}

	return rec, nil
}

// MarkPaid transitions a pending settlement to paid. The status check is part
// of the UPDATE predicate; when no row changes, a re-read distinguishes
// domain.ErrNotFound from domain.ErrAlreadyPaid.
func (s *Store) MarkPaid(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE settlements SET status = ? WHERE id = ? AND status = ?`,
		string(domain.StatusPaid), id.String(), string(domain.StatusPending),
	)
	if err != nil {
		return mapError(err, id)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("settlement %s: rows affected: %w", id, err)
	}
	if affected > 0 {
		return nil
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == domain.StatusPaid {
		return fmt.Errorf("settlement %s: %w", id, domain.ErrAlreadyPaid)
	}

	return fmt.Errorf("settlement %s: concurrent update", id)
}

// DeleteExpiredBefore removes settlements whose retention window ended
// strictly before the given unix timestamp, up to batchSize rows per call.
// A record with expires_at == now survives the sweep.
// Returns the count of deleted settlements.
func (s *Store) DeleteExpiredBefore(ctx context.Context, now int64, batchSize int) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM settlements
		 WHERE id IN (SELECT id FROM settlements WHERE expires_at < ? ORDER BY expires_at LIMIT ?)`,
		now, batchSize,
	)
	if err != nil {
		return 0, mapError(err, uuid.Nil)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("settlement sweep: rows affected: %w", err)
	}

	return int(affected), nil
}

// ListExpiredBefore returns the settlements whose retention window ended
// strictly before the given unix timestamp, oldest expiry first. Used for
// sweep dry runs.
func (s *Store) ListExpiredBefore(ctx context.Context, now int64) ([]*domain.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, store_name, total_amount, request_amount, items,
		        receipt_image_url, status, created_at, expires_at
		 FROM settlements WHERE expires_at < ? ORDER BY expires_at`, now,
	)
	if err != nil {
		return nil, mapError(err, uuid.Nil)
	}
	defer rows.Close()

	var out []*domain.Settlement
	for rows.Next() {
		rec, err := scanSettlement(rows)
		if err != nil {
			return nil, mapError(err, uuid.Nil)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, uuid.Nil)
	}

	return out, nil
}

// mapError converts database/sql and sqlite errors into domain errors.
func mapError(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("settlement %s: %w", id, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("settlement %s: %w", id, domain.ErrNotFound)
	}

	// modernc.org/sqlite surfaces constraint failures as plain error strings.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("settlement %s: %w", id, domain.ErrAlreadyExists)
	case strings.Contains(msg, "CHECK constraint failed"):
		return fmt.Errorf("settlement %s: %w", id, domain.ErrValidation)
	}

	return fmt.Errorf("settlement %s: %w", id, err)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSettlement maps a settlements row into a domain.Settlement.
func scanSettlement(row rowScanner) (*domain.Settlement, error) {
	var (
		rec       domain.Settlement
		rawID     string
		itemsJSON string
		status    string
	)

	err := row.Scan(&rawID, &rec.StoreName, &rec.TotalAmount, &rec.RequestAmount,
		&itemsJSON, &rec.ReceiptImageURL, &status, &rec.CreatedAt, &rec.ExpiresAt)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse settlement id %q: %w", rawID, err)
	}
	rec.ID = id
	rec.Status = domain.Status(status)

	if itemsJSON != "" {
		if err := json.Unmarshal([]byte(itemsJSON), &rec.Items); err != nil {
			return nil, fmt.Errorf("settlement %s unmarshal items: %w", rec.ID, err)
		}
	}

	return &rec, nil
}
