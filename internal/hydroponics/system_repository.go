package hydroponics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nerrad567/hydroponics-core/internal/infrastructure/database"
	"github.com/nerrad567/hydroponics-core/internal/query"
)

// SystemRepository defines persistence operations for systems.
type SystemRepository interface {
	// FindByID returns the system regardless of owner.
	// Returns ErrSystemNotFound if it does not exist.
	FindByID(ctx context.Context, id int64) (*System, error)

	// FindByOwner returns one page of ownerID's systems matching f, in
	// order o, plus the size of the whole matching collection.
	FindByOwner(ctx context.Context, ownerID string, f query.Filter, o query.Ordering, p query.Page) (query.Result[System], error)

	// Insert stores s and fills in its ID and CreatedAt.
	Insert(ctx context.Context, s *System) error

	// Update writes the mutable fields of s.
	// Returns ErrSystemNotFound if it does not exist.
	Update(ctx context.Context, s *System) error

	// Delete removes a system and, through the foreign key, its readings.
	// Returns ErrSystemNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error
}

// SQLiteSystemRepository implements SystemRepository using SQLite.
type SQLiteSystemRepository struct {
	db database.Querier
}

// NewSystemRepository creates a repository on db, which may be a
// connection or a transaction.
func NewSystemRepository(db database.Querier) *SQLiteSystemRepository {
	return &SQLiteSystemRepository{db: db}
}

const systemColumns = "id, name, description, plant_count, owner_id, created_at"

// FindByID retrieves a system by its ID.
func (r *SQLiteSystemRepository) FindByID(ctx context.Context, id int64) (*System, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+systemColumns+" FROM hydroponic_systems WHERE id = ?", id)

	s, err := scanSystem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSystemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying system: %w", err)
	}
	return s, nil
}

// FindByOwner lists one page of an owner's systems.
func (r *SQLiteSystemRepository) FindByOwner(ctx context.Context, ownerID string, f query.Filter, o query.Ordering, p query.Page) (query.Result[System], error) {
	where := "owner_id = ?"
	args := []any{ownerID}
	if clause, fargs := f.SQL(); clause != "" {
		where += " AND " + clause
		args = append(args, fargs...)
	}

	var count int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM hydroponic_systems WHERE "+where, args...,
	).Scan(&count); err != nil {
		return query.Result[System]{}, fmt.Errorf("counting systems: %w", err)
	}

	p = p.Resolve(count)
	items := []System{}

	if p.Offset() < count {
		rows, err := r.db.QueryContext(ctx,
			"SELECT "+systemColumns+" FROM hydroponic_systems WHERE "+where+
				" ORDER BY "+o.SQL()+" LIMIT ? OFFSET ?",
			append(args, p.Size, p.Offset())...,
		)
		if err != nil {
			return query.Result[System]{}, fmt.Errorf("querying systems: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			s, err := scanSystem(rows)
			if err != nil {
				return query.Result[System]{}, fmt.Errorf("scanning system: %w", err)
			}
			items = append(items, *s)
		}
		if err := rows.Err(); err != nil {
			return query.Result[System]{}, fmt.Errorf("iterating systems: %w", err)
		}
	}

	return query.Result[System]{Items: items, Count: count, Page: p}, nil
}

// Insert creates a new system.
func (r *SQLiteSystemRepository) Insert(ctx context.Context, s *System) error {
	createdAt := database.Now()

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO hydroponic_systems (name, description, plant_count, owner_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.Name, s.Description, s.PlantCount, s.OwnerID, database.FormatTime(createdAt))
	if err != nil {
		return fmt.Errorf("inserting system: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading system id: %w", err)
	}
	s.ID = id
	s.CreatedAt = createdAt
	return nil
}

// Update modifies an existing system. Owner and creation time never change.
func (r *SQLiteSystemRepository) Update(ctx context.Context, s *System) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE hydroponic_systems SET name = ?, description = ?, plant_count = ?
		WHERE id = ?
	`, s.Name, s.Description, s.PlantCount, s.ID)
	if err != nil {
		return fmt.Errorf("updating system: %w", err)
	}
	return requireRow(result, ErrSystemNotFound)
}

// Delete removes a system by ID.
func (r *SQLiteSystemRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM hydroponic_systems WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting system: %w", err)
	}
	return requireRow(result, ErrSystemNotFound)
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSystem(row rowScanner) (*System, error) {
	var s System
	var createdAt string
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.PlantCount, &s.OwnerID, &createdAt); err != nil {
		return nil, err
	}
	t, err := database.ParseTime(createdAt)
	if err != nil {
		return nil, err
	}
	s.CreatedAt = t
	return &s, nil
}

// requireRow maps a write that touched no rows to notFound.
func requireRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
