package invoice

import (
	"time"

	reading "nhatro-cloud/internal/reading/domain"
)

// Status of an invoice. OVERDUE is still an unpaid state; PAID is terminal.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"
)

// Invoice bills one room for one month. Amounts are VND.
// TotalAmount is always the sum of the four charge components; it is
// computed in the constructor and never accepted from a caller.
type Invoice struct {
	InvoiceID         string
	RoomID            string
	RoomName          string
	Month             reading.Month
	RoomCharge        int64
	ElectricityCharge int64
	WaterCharge       int64
	OtherCharges      int64
	TotalAmount       int64
	Status            Status
	DueDate           time.Time
	PaidAt            time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BuildInvoiceID derives the deterministic identity from room and month.
func BuildInvoiceID(roomID string, month reading.Month) (string, error) {
	if roomID == "" {
		return "", ErrEmptyRoom
	}
	if _, err := reading.ParseMonth(month.String()); err != nil {
		return "", err
	}
	return "inv-" + roomID + "-" + month.Start().Format("200601"), nil
}

// New builds a pending invoice. The total is derived here so the
// roomCharge+electricity+water+other == TotalAmount invariant cannot drift.
func New(roomID, roomName string, month reading.Month, roomCharge, electricityCharge, waterCharge, otherCharges int64, dueDate, now time.Time) (*Invoice, error) {
	id, err := BuildInvoiceID(roomID, month)
	if err != nil {
		return nil, err
	}
	if roomCharge < 0 || electricityCharge < 0 || waterCharge < 0 || otherCharges < 0 {
		return nil, ErrNegativeCharge
	}
	return &Invoice{
		InvoiceID:         id,
		RoomID:            roomID,
		RoomName:          roomName,
		Month:             month,
		RoomCharge:        roomCharge,
		ElectricityCharge: electricityCharge,
		WaterCharge:       waterCharge,
		OtherCharges:      otherCharges,
		TotalAmount:       roomCharge + electricityCharge + waterCharge + otherCharges,
		Status:            StatusPending,
		DueDate:           dueDate,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// MarkPaid records payment. Valid from PENDING or OVERDUE; paying twice
// is an invalid transition, and nothing ever returns to PENDING.
func (i *Invoice) MarkPaid(now time.Time) error {
	switch i.Status {
	case StatusPending, StatusOverdue:
		i.Status = StatusPaid
		i.PaidAt = now
		i.UpdatedAt = now
		return nil
	default:
		return ErrInvalidTransition
	}
}

// MarkOverdue flips a pending invoice once its due date has passed.
func (i *Invoice) MarkOverdue(now time.Time) error {
	if i.Status != StatusPending {
		return ErrInvalidTransition
	}
	if !i.DueDate.IsZero() && !now.After(i.DueDate) {
		return ErrNotYetDue
	}
	i.Status = StatusOverdue
	i.UpdatedAt = now
	return nil
}

// Unpaid reports whether the invoice still needs collecting.
func (i *Invoice) Unpaid() bool {
	return i.Status == StatusPending || i.Status == StatusOverdue
}
