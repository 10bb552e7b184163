package auth

import (
	"context"
	"fmt"

	"github.com/nerrad567/hydroponics-core/internal/infrastructure/database"
)

// OwnerStore persists the owner ids seen from the identity provider.
// Rows exist so that deleting an owner cascades to its systems and readings.
type OwnerStore interface {
	// Ensure records ownerID if it is not known yet. It is idempotent.
	Ensure(ctx context.Context, ownerID string) error

	// Delete removes ownerID and, through foreign keys, everything it owns.
	Delete(ctx context.Context, ownerID string) error
}

// SQLiteOwnerStore implements OwnerStore using SQLite.
type SQLiteOwnerStore struct {
	db database.Querier
}

// NewOwnerStore creates a new SQLite-backed owner store.
func NewOwnerStore(db database.Querier) *SQLiteOwnerStore {
	return &SQLiteOwnerStore{db: db}
}

// Ensure inserts the owner row if absent.
func (s *SQLiteOwnerStore) Ensure(ctx context.Context, ownerID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO owners (id, created_at) VALUES (?, ?) ON CONFLICT(id) DO NOTHING",
		ownerID, database.FormatTime(database.Now()),
	)
	if err != nil {
		return fmt.Errorf("ensuring owner: %w", err)
	}
	return nil
}

// Delete removes an owner. Systems and readings go with it.
func (s *SQLiteOwnerStore) Delete(ctx context.Context, ownerID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM owners WHERE id = ?", ownerID)
	if err != nil {
		return fmt.Errorf("deleting owner: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrOwnerNotFound
	}
	return nil
}
