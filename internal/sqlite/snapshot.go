package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/reelboard/internal/repository"
)

// SnapshotRepository implements repository.SnapshotRepository for SQLite
type SnapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Put replaces the snapshot stored for namespace
func (r *SnapshotRepository) Put(ctx context.Context, namespace string, payload []byte) error {
	if namespace == "" {
		return fmt.Errorf("%w: namespace is required", repository.ErrInvalidInput)
	}

	query := `
		INSERT INTO snapshots (namespace, payload, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET
			payload = excluded.payload,
			saved_at = excluded.saved_at
	`
	if _, err := r.db.ExecContext(ctx, query, namespace, string(payload), time.Now().UTC()); err != nil {
		return mapWriteError("failed to save snapshot", err)
	}
	return nil
}

// Get returns the snapshot stored for namespace, or repository.ErrNotFound
func (r *SnapshotRepository) Get(ctx context.Context, namespace string) ([]byte, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE namespace = ?`, namespace).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return []byte(payload), nil
}
