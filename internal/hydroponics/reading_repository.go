package hydroponics

import (
	"context"
	"fmt"

	"github.com/nerrad567/hydroponics-core/internal/decimal"
	"github.com/nerrad567/hydroponics-core/internal/infrastructure/database"
	"github.com/nerrad567/hydroponics-core/internal/query"
)

// ReadingRepository defines persistence operations for sensor readings.
// Readings are immutable once stored.
type ReadingRepository interface {
	// FindByOwner returns one page of the readings of every system ownerID
	// owns, matching f, in order o.
	FindByOwner(ctx context.Context, ownerID string, f query.Filter, o query.Ordering, p query.Page) (query.Result[Reading], error)

	// FindRecentBySystem returns up to limit readings of one system,
	// newest first. It never returns nil.
	FindRecentBySystem(ctx context.Context, systemID int64, limit int) ([]Reading, error)

	// Insert stores rd and fills in its ID and CreatedAt.
	Insert(ctx context.Context, rd *Reading) error
}

// SQLiteReadingRepository implements ReadingRepository using SQLite.
type SQLiteReadingRepository struct {
	db database.Querier
}

// NewReadingRepository creates a repository on db.
func NewReadingRepository(db database.Querier) *SQLiteReadingRepository {
	return &SQLiteReadingRepository{db: db}
}

const (
	readingColumns = "r.id, r.ph, r.water_temp, r.tds, r.hydroponic_system_id, r.created_at"

	// ownedReadings scopes readings to an owner through their system.
	ownedReadings = `sensor_readings r
		JOIN hydroponic_systems s ON s.id = r.hydroponic_system_id
		WHERE s.owner_id = ?`
)

// FindByOwner lists one page of an owner's readings.
func (r *SQLiteReadingRepository) FindByOwner(ctx context.Context, ownerID string, f query.Filter, o query.Ordering, p query.Page) (query.Result[Reading], error) {
	from := ownedReadings
	args := []any{ownerID}
	if clause, fargs := f.SQL(); clause != "" {
		from += " AND " + clause
		args = append(args, fargs...)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+from, args...).Scan(&count); err != nil {
		return query.Result[Reading]{}, fmt.Errorf("counting readings: %w", err)
	}

	p = p.Resolve(count)
	if p.Offset() >= count {
		return query.Result[Reading]{Items: []Reading{}, Count: count, Page: p}, nil
	}

	items, err := r.list(ctx,
		"SELECT "+readingColumns+" FROM "+from+" ORDER BY "+o.SQL()+" LIMIT ? OFFSET ?",
		append(args, p.Size, p.Offset())...,
	)
	if err != nil {
		return query.Result[Reading]{}, err
	}
	return query.Result[Reading]{Items: items, Count: count, Page: p}, nil
}

// FindRecentBySystem lists the newest readings of one system.
func (r *SQLiteReadingRepository) FindRecentBySystem(ctx context.Context, systemID int64, limit int) ([]Reading, error) {
	return r.list(ctx, `
		SELECT `+readingColumns+` FROM sensor_readings r
		WHERE r.hydroponic_system_id = ?
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT ?
	`, systemID, limit)
}

// Insert creates a new reading.
func (r *SQLiteReadingRepository) Insert(ctx context.Context, rd *Reading) error {
	createdAt := database.Now()

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO sensor_readings (ph, water_temp, tds, hydroponic_system_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, rd.PH.Hundredths(), rd.WaterTemp.Hundredths(), rd.TDS.Hundredths(), rd.SystemID,
		database.FormatTime(createdAt))
	if err != nil {
		return fmt.Errorf("inserting reading: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading reading id: %w", err)
	}
	rd.ID = id
	rd.CreatedAt = createdAt
	return nil
}

func (r *SQLiteReadingRepository) list(ctx context.Context, q string, args ...any) ([]Reading, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	readings := []Reading{}
	for rows.Next() {
		rd, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning reading: %w", err)
		}
		readings = append(readings, *rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating readings: %w", err)
	}
	return readings, nil
}

func scanReading(row rowScanner) (*Reading, error) {
	var rd Reading
	var ph, waterTemp, tds int64
	var createdAt string
	if err := row.Scan(&rd.ID, &ph, &waterTemp, &tds, &rd.SystemID, &createdAt); err != nil {
		return nil, err
	}
	t, err := database.ParseTime(createdAt)
	if err != nil {
		return nil, err
	}
	rd.PH = decimal.Decimal(ph)
	rd.WaterTemp = decimal.Decimal(waterTemp)
	rd.TDS = decimal.Decimal(tds)
	rd.CreatedAt = t
	return &rd, nil
}
