package invoice

import (
	"context"
	"time"

	reading "nhatro-cloud/internal/reading/domain"
)

// Repository persists invoices.
type Repository interface {
	// Create inserts a new invoice; ErrDuplicateInvoice when the room
	// already has a non-deleted invoice for the month.
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id string) (*Invoice, error)
	// FindByRoomAndMonth returns nil without error when absent.
	FindByRoomAndMonth(ctx context.Context, roomID string, month reading.Month) (*Invoice, error)
	ListByMonth(ctx context.Context, month reading.Month) ([]Invoice, error)
	// ListDuePending returns pending invoices whose due date is before now.
	ListDuePending(ctx context.Context, now time.Time) ([]Invoice, error)
	// UpdateStatus persists a lifecycle transition.
	UpdateStatus(ctx context.Context, inv *Invoice) error
}
