package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	reading "nhatro-cloud/internal/reading/domain"
)

const pgUniqueViolation = "23505"

// ReadingRepository persists utility readings.
type ReadingRepository struct {
	db *sql.DB
}

// NewReadingRepository constructs a repository.
func NewReadingRepository(db *sql.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// Create inserts a reading. A unique violation on (room, month) maps
// to ErrDuplicateReading.
func (r *ReadingRepository) Create(ctx context.Context, rd *reading.UtilityReading) error {
	if r == nil || r.db == nil {
		return errors.New("reading repo: nil db")
	}
	if rd == nil {
		return errors.New("reading repo: nil reading")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO utility_readings (
	id, room_id, month, electricity_start, electricity_end, water_start, water_end,
	is_deleted, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,FALSE,$8,$9)`,
		rd.ID, rd.RoomID, rd.Month.String(), rd.ElectricityStart, rd.ElectricityEnd,
		rd.WaterStart, rd.WaterEnd, rd.CreatedAt, rd.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return reading.ErrDuplicateReading
		}
		return err
	}
	return nil
}

// Update overwrites the meter values of a stored reading.
func (r *ReadingRepository) Update(ctx context.Context, rd *reading.UtilityReading) error {
	if r == nil || r.db == nil {
		return errors.New("reading repo: nil db")
	}
	if rd == nil {
		return errors.New("reading repo: nil reading")
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE utility_readings
SET electricity_start = $2, electricity_end = $3, water_start = $4, water_end = $5, updated_at = $6
WHERE id = $1 AND is_deleted = FALSE`,
		rd.ID, rd.ElectricityStart, rd.ElectricityEnd, rd.WaterStart, rd.WaterEnd, rd.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return reading.ErrReadingNotFound
	}
	return nil
}

// GetByID fetches a reading, nil when absent.
func (r *ReadingRepository) GetByID(ctx context.Context, id string) (*reading.UtilityReading, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("reading repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, room_id, month, electricity_start, electricity_end, water_start, water_end,
	is_deleted, created_at, updated_at
FROM utility_readings
WHERE id = $1 AND is_deleted = FALSE
LIMIT 1`, id)
	return scanReading(row)
}

// FindByRoomAndMonth returns nil without error when absent.
func (r *ReadingRepository) FindByRoomAndMonth(ctx context.Context, roomID string, month reading.Month) (*reading.UtilityReading, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("reading repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, room_id, month, electricity_start, electricity_end, water_start, water_end,
	is_deleted, created_at, updated_at
FROM utility_readings
WHERE room_id = $1 AND month = $2 AND is_deleted = FALSE
LIMIT 1`, roomID, month.String())
	return scanReading(row)
}

// ListByMonth returns the month's readings ordered by room.
func (r *ReadingRepository) ListByMonth(ctx context.Context, month reading.Month) ([]reading.UtilityReading, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("reading repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, room_id, month, electricity_start, electricity_end, water_start, water_end,
	is_deleted, created_at, updated_at
FROM utility_readings
WHERE month = $1 AND is_deleted = FALSE
ORDER BY room_id ASC`, month.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []reading.UtilityReading
	for rows.Next() {
		rd, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		if rd != nil {
			result = append(result, *rd)
		}
	}
	return result, rows.Err()
}

// SoftDelete marks a reading deleted.
func (r *ReadingRepository) SoftDelete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("reading repo: nil db")
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE utility_readings SET is_deleted = TRUE, updated_at = NOW()
WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return reading.ErrReadingNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReading(row rowScanner) (*reading.UtilityReading, error) {
	var rd reading.UtilityReading
	var month string
	var electricityEnd, waterEnd sql.NullInt64
	err := row.Scan(
		&rd.ID, &rd.RoomID, &month, &rd.ElectricityStart, &electricityEnd,
		&rd.WaterStart, &waterEnd, &rd.IsDeleted, &rd.CreatedAt, &rd.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rd.Month = reading.Month(month)
	if electricityEnd.Valid {
		value := electricityEnd.Int64
		rd.ElectricityEnd = &value
	}
	if waterEnd.Valid {
		value := waterEnd.Int64
		rd.WaterEnd = &value
	}
	return &rd, nil
}
