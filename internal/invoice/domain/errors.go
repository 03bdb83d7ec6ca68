package invoice

import "errors"

var (
	// ErrNegativeCharge is returned when a charge component is negative.
	ErrNegativeCharge = errors.New("invoice: negative charge")
	// ErrEmptyRoom is returned when an invoice has no room.
	ErrEmptyRoom = errors.New("invoice: empty room")
	// ErrInvalidTransition is returned for a disallowed status change.
	ErrInvalidTransition = errors.New("invoice: invalid status transition")
	// ErrNotYetDue is returned when marking overdue before the due date.
	ErrNotYetDue = errors.New("invoice: not yet due")
	// ErrDuplicateInvoice is returned when a room already has an invoice for the month.
	ErrDuplicateInvoice = errors.New("invoice: room already billed for this month")
	// ErrMissingUtilityReading flags a room whose month has no complete reading.
	ErrMissingUtilityReading = errors.New("invoice: missing utility reading for month")
	// ErrInvoiceNotFound is returned when an invoice is not found.
	ErrInvoiceNotFound = errors.New("invoice: not found")
)
