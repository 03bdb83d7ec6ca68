package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	tenant "nhatro-cloud/internal/tenant/domain"
)

// TenantRepository persists tenants.
type TenantRepository struct {
	db *sql.DB
}

// NewTenantRepository constructs a repository.
func NewTenantRepository(db *sql.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// Create inserts a tenant.
func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	if r == nil || r.db == nil {
		return errors.New("tenant repo: nil db")
	}
	if t == nil {
		return errors.New("tenant repo: nil tenant")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO tenants (
	id, full_name, phone_number, room_id, move_in_date, move_out_date, status,
	is_deleted, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,FALSE,$8,$9)`,
		t.ID, t.FullName, t.PhoneNumber, nullString(t.RoomID), nullTime(t.MoveInDate),
		nullTime(t.MoveOutDate), t.Status, t.CreatedAt, t.UpdatedAt)
	return err
}

// Update overwrites a stored tenant.
func (r *TenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	if r == nil || r.db == nil {
		return errors.New("tenant repo: nil db")
	}
	if t == nil {
		return errors.New("tenant repo: nil tenant")
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE tenants
SET full_name = $2, phone_number = $3, room_id = $4, move_in_date = $5, move_out_date = $6,
	status = $7, updated_at = $8
WHERE id = $1 AND is_deleted = FALSE`,
		t.ID, t.FullName, t.PhoneNumber, nullString(t.RoomID), nullTime(t.MoveInDate),
		nullTime(t.MoveOutDate), t.Status, t.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

// GetByID fetches a tenant, nil when absent.
func (r *TenantRepository) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("tenant repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, full_name, phone_number, room_id, move_in_date, move_out_date, status,
	is_deleted, created_at, updated_at
FROM tenants
WHERE id = $1 AND is_deleted = FALSE
LIMIT 1`, id)
	return scanTenant(row)
}

// List returns all non-deleted tenants ordered by name.
func (r *TenantRepository) List(ctx context.Context) ([]tenant.Tenant, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("tenant repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, full_name, phone_number, room_id, move_in_date, move_out_date, status,
	is_deleted, created_at, updated_at
FROM tenants
WHERE is_deleted = FALSE
ORDER BY full_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		if t != nil {
			result = append(result, *t)
		}
	}
	return result, rows.Err()
}

// SoftDelete marks a tenant deleted.
func (r *TenantRepository) SoftDelete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("tenant repo: nil db")
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE tenants SET is_deleted = TRUE, updated_at = NOW()
WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*tenant.Tenant, error) {
	var t tenant.Tenant
	var roomID sql.NullString
	var moveIn, moveOut sql.NullTime
	err := row.Scan(
		&t.ID, &t.FullName, &t.PhoneNumber, &roomID, &moveIn, &moveOut, &t.Status,
		&t.IsDeleted, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if roomID.Valid {
		t.RoomID = roomID.String
	}
	if moveIn.Valid {
		t.MoveInDate = moveIn.Time.UTC()
	}
	if moveOut.Valid {
		t.MoveOutDate = moveOut.Time.UTC()
	}
	return &t, nil
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
