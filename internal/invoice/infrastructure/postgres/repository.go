package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	invoice "nhatro-cloud/internal/invoice/domain"
	reading "nhatro-cloud/internal/reading/domain"
)

const pgUniqueViolation = "23505"

// InvoiceRepository persists invoices.
type InvoiceRepository struct {
	db *sql.DB
}

// NewInvoiceRepository constructs a repository.
func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts a new invoice. A unique violation on (room, month)
// maps to ErrDuplicateInvoice so concurrent generation runs cannot
// double-bill a room.
func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	if r == nil || r.db == nil {
		return errors.New("invoice repo: nil db")
	}
	if inv == nil {
		return errors.New("invoice repo: nil invoice")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO invoices (
	id, room_id, room_name, month, room_charge, electricity_charge, water_charge,
	other_charges, total_amount, status, due_date, created_at, updated_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
)`,
		inv.InvoiceID, inv.RoomID, inv.RoomName, inv.Month.String(), inv.RoomCharge, inv.ElectricityCharge,
		inv.WaterCharge, inv.OtherCharges, inv.TotalAmount, string(inv.Status), inv.DueDate, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return invoice.ErrDuplicateInvoice
		}
		return err
	}
	return nil
}

// GetByID fetches an invoice, nil when absent.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*invoice.Invoice, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("invoice repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, room_id, room_name, month, room_charge, electricity_charge, water_charge,
	other_charges, total_amount, status, due_date, paid_at, created_at, updated_at
FROM invoices
WHERE id = $1 AND is_deleted = FALSE
LIMIT 1`, id)
	return scanInvoice(row)
}

// FindByRoomAndMonth returns nil without error when absent.
func (r *InvoiceRepository) FindByRoomAndMonth(ctx context.Context, roomID string, month reading.Month) (*invoice.Invoice, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("invoice repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, room_id, room_name, month, room_charge, electricity_charge, water_charge,
	other_charges, total_amount, status, due_date, paid_at, created_at, updated_at
FROM invoices
WHERE room_id = $1 AND month = $2 AND is_deleted = FALSE
LIMIT 1`, roomID, month.String())
	return scanInvoice(row)
}

// ListByMonth returns the month's invoices ordered by room name.
func (r *InvoiceRepository) ListByMonth(ctx context.Context, month reading.Month) ([]invoice.Invoice, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("invoice repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, room_id, room_name, month, room_charge, electricity_charge, water_charge,
	other_charges, total_amount, status, due_date, paid_at, created_at, updated_at
FROM invoices
WHERE month = $1 AND is_deleted = FALSE
ORDER BY room_name ASC`, month.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvoices(rows)
}

// ListDuePending returns pending invoices due before now.
func (r *InvoiceRepository) ListDuePending(ctx context.Context, now time.Time) ([]invoice.Invoice, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("invoice repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, room_id, room_name, month, room_charge, electricity_charge, water_charge,
	other_charges, total_amount, status, due_date, paid_at, created_at, updated_at
FROM invoices
WHERE status = 'PENDING' AND due_date < $1 AND is_deleted = FALSE
ORDER BY due_date ASC`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvoices(rows)
}

// UpdateStatus persists a lifecycle transition.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, inv *invoice.Invoice) error {
	if r == nil || r.db == nil {
		return errors.New("invoice repo: nil db")
	}
	if inv == nil {
		return errors.New("invoice repo: nil invoice")
	}
	var paidAt any
	if !inv.PaidAt.IsZero() {
		paidAt = inv.PaidAt
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE invoices
SET status = $2, paid_at = $3, updated_at = $4
WHERE id = $1 AND is_deleted = FALSE`,
		inv.InvoiceID, string(inv.Status), paidAt, inv.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return invoice.ErrInvoiceNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	var month string
	var status string
	var dueDate, paidAt, createdAt, updatedAt sql.NullTime
	err := row.Scan(
		&inv.InvoiceID, &inv.RoomID, &inv.RoomName, &month, &inv.RoomCharge, &inv.ElectricityCharge,
		&inv.WaterCharge, &inv.OtherCharges, &inv.TotalAmount, &status, &dueDate, &paidAt, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	inv.Month = reading.Month(month)
	inv.Status = invoice.Status(status)
	if dueDate.Valid {
		inv.DueDate = dueDate.Time.UTC()
	}
	if paidAt.Valid {
		inv.PaidAt = paidAt.Time.UTC()
	}
	if createdAt.Valid {
		inv.CreatedAt = createdAt.Time.UTC()
	}
	if updatedAt.Valid {
		inv.UpdatedAt = updatedAt.Time.UTC()
	}
	return &inv, nil
}

func collectInvoices(rows *sql.Rows) ([]invoice.Invoice, error) {
	var result []invoice.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		if inv != nil {
			result = append(result, *inv)
		}
	}
	return result, rows.Err()
}
