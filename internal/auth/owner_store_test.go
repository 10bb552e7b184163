package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/nerrad567/hydroponics-core/internal/infrastructure/database"
	_ "github.com/nerrad567/hydroponics-core/migrations"
)

// testDB opens a migrated database in a temp directory.
func testDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "auth.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return db
}

func TestOwnerStore_EnsureIsIdempotent(t *testing.T) {
	db := testDB(t)
	store := NewOwnerStore(db)
	ctx := context.Background()

	for range 3 {
		if err := store.Ensure(ctx, "alice"); err != nil {
			t.Fatalf("Ensure() error = %v", err)
		}
	}

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM owners WHERE id = 'alice'").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("owner rows = %d, want 1", n)
	}
}

func TestOwnerStore_DeleteCascades(t *testing.T) {
	db := testDB(t)
	store := NewOwnerStore(db)
	ctx := context.Background()

	if err := store.Ensure(ctx, "alice"); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if _, err := db.ExecContext(ctx, `
		INSERT INTO hydroponic_systems (id, name, description, plant_count, owner_id, created_at)
		VALUES (1, 'Tower', '', 3, 'alice', '2024-01-01T00:00:00.000000Z');
		INSERT INTO sensor_readings (ph, water_temp, tds, hydroponic_system_id, created_at)
		VALUES (650, 2100, 80000, 1, '2024-01-01T00:00:01.000000Z');
	`); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	if err := store.Delete(ctx, "alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	for _, table := range []string{"hydroponic_systems", "sensor_readings"} {
		var n int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("%s rows after owner delete = %d, want 0", table, n)
		}
	}

	if err := store.Delete(ctx, "alice"); !errors.Is(err, ErrOwnerNotFound) {
		t.Errorf("second Delete() error = %v, want ErrOwnerNotFound", err)
	}
}

func TestOwnerStore_DatabaseErrors(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer mockDB.Close() //nolint:errcheck // Test cleanup

	store := NewOwnerStore(mockDB)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO owners").WillReturnError(errors.New("disk I/O error"))
	if err := store.Ensure(ctx, "alice"); err == nil {
		t.Error("Ensure() expected error")
	}

	mock.ExpectExec("DELETE FROM owners").WillReturnError(errors.New("disk I/O error"))
	if err := store.Delete(ctx, "alice"); err == nil || errors.Is(err, ErrOwnerNotFound) {
		t.Errorf("Delete() error = %v, want wrapped driver error", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
