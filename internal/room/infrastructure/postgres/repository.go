package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	room "nhatro-cloud/internal/room/domain"
)

const pgUniqueViolation = "23505"

// RoomRepository persists rooms.
type RoomRepository struct {
	db *sql.DB
}

// NewRoomRepository constructs a repository.
func NewRoomRepository(db *sql.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create inserts a room; duplicate numbers map to ErrDuplicateNumber.
func (r *RoomRepository) Create(ctx context.Context, rm *room.Room) error {
	if r == nil || r.db == nil {
		return errors.New("room repo: nil db")
	}
	if rm == nil {
		return errors.New("room repo: nil room")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO rooms (
	id, number, status, tenant_id, price, deposit, is_deposit_paid, current_tenants,
	move_in_date, move_out_date, is_deleted, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,FALSE,$11,$12)`,
		rm.ID, rm.Number, rm.Status, nullString(rm.TenantID), rm.Price, rm.Deposit, rm.IsDepositPaid,
		rm.CurrentTenants, nullTime(rm.MoveInDate), nullTime(rm.MoveOutDate), rm.CreatedAt, rm.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return room.ErrDuplicateNumber
		}
		return err
	}
	return nil
}

// Update overwrites a stored room.
func (r *RoomRepository) Update(ctx context.Context, rm *room.Room) error {
	if r == nil || r.db == nil {
		return errors.New("room repo: nil db")
	}
	if rm == nil {
		return errors.New("room repo: nil room")
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE rooms
SET number = $2, status = $3, tenant_id = $4, price = $5, deposit = $6, is_deposit_paid = $7,
	current_tenants = $8, move_in_date = $9, move_out_date = $10, updated_at = $11
WHERE id = $1 AND is_deleted = FALSE`,
		rm.ID, rm.Number, rm.Status, nullString(rm.TenantID), rm.Price, rm.Deposit, rm.IsDepositPaid,
		rm.CurrentTenants, nullTime(rm.MoveInDate), nullTime(rm.MoveOutDate), rm.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return room.ErrRoomNotFound
	}
	return nil
}

// GetByID fetches a room, nil when absent.
func (r *RoomRepository) GetByID(ctx context.Context, id string) (*room.Room, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("room repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, number, status, tenant_id, price, deposit, is_deposit_paid, current_tenants,
	move_in_date, move_out_date, is_deleted, created_at, updated_at
FROM rooms
WHERE id = $1 AND is_deleted = FALSE
LIMIT 1`, id)
	return scanRoom(row)
}

// List returns all non-deleted rooms ordered by number.
func (r *RoomRepository) List(ctx context.Context) ([]room.Room, error) {
	return r.list(ctx, `
SELECT id, number, status, tenant_id, price, deposit, is_deposit_paid, current_tenants,
	move_in_date, move_out_date, is_deleted, created_at, updated_at
FROM rooms
WHERE is_deleted = FALSE
ORDER BY number ASC`)
}

// ListBillable returns occupied rooms ordered by number.
func (r *RoomRepository) ListBillable(ctx context.Context) ([]room.Room, error) {
	return r.list(ctx, `
SELECT id, number, status, tenant_id, price, deposit, is_deposit_paid, current_tenants,
	move_in_date, move_out_date, is_deleted, created_at, updated_at
FROM rooms
WHERE is_deleted = FALSE AND status = 'FULL' AND tenant_id IS NOT NULL
ORDER BY number ASC`)
}

func (r *RoomRepository) list(ctx context.Context, query string) ([]room.Room, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("room repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []room.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		if rm != nil {
			result = append(result, *rm)
		}
	}
	return result, rows.Err()
}

// SoftDelete marks a room deleted.
func (r *RoomRepository) SoftDelete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("room repo: nil db")
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE rooms SET is_deleted = TRUE, updated_at = NOW()
WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return room.ErrRoomNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*room.Room, error) {
	var rm room.Room
	var tenantID sql.NullString
	var moveIn, moveOut sql.NullTime
	err := row.Scan(
		&rm.ID, &rm.Number, &rm.Status, &tenantID, &rm.Price, &rm.Deposit, &rm.IsDepositPaid,
		&rm.CurrentTenants, &moveIn, &moveOut, &rm.IsDeleted, &rm.CreatedAt, &rm.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if tenantID.Valid {
		rm.TenantID = tenantID.String
	}
	if moveIn.Valid {
		rm.MoveInDate = moveIn.Time.UTC()
	}
	if moveOut.Valid {
		rm.MoveOutDate = moveOut.Time.UTC()
	}
	return &rm, nil
}

func nullString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value
}
