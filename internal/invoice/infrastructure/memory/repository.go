package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	invoice "nhatro-cloud/internal/invoice/domain"
	reading "nhatro-cloud/internal/reading/domain"
)

// InvoiceRepository is an in-memory invoice store for tests and tooling.
type InvoiceRepository struct {
	mu   sync.RWMutex
	data map[string]invoice.Invoice
}

// NewInvoiceRepository constructs a repository.
func NewInvoiceRepository() *InvoiceRepository {
	return &InvoiceRepository{data: make(map[string]invoice.Invoice)}
}

// Create inserts a new invoice, enforcing (room, month) uniqueness.
func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	_ = ctx
	if inv == nil {
		return invoice.ErrInvoiceNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.data {
		if existing.RoomID == inv.RoomID && existing.Month == inv.Month {
			return invoice.ErrDuplicateInvoice
		}
	}
	r.data[inv.InvoiceID] = *inv
	return nil
}

// GetByID fetches an invoice, nil when absent.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*invoice.Invoice, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.data[id]
	if !ok {
		return nil, nil
	}
	copy := inv
	return &copy, nil
}

// FindByRoomAndMonth returns nil without error when absent.
func (r *InvoiceRepository) FindByRoomAndMonth(ctx context.Context, roomID string, month reading.Month) (*invoice.Invoice, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, inv := range r.data {
		if inv.RoomID == roomID && inv.Month == month {
			copy := inv
			return &copy, nil
		}
	}
	return nil, nil
}

// ListByMonth returns the month's invoices ordered by room name.
func (r *InvoiceRepository) ListByMonth(ctx context.Context, month reading.Month) ([]invoice.Invoice, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []invoice.Invoice
	for _, inv := range r.data {
		if inv.Month == month {
			result = append(result, inv)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RoomName < result[j].RoomName })
	return result, nil
}

// ListDuePending returns pending invoices due before now.
func (r *InvoiceRepository) ListDuePending(ctx context.Context, now time.Time) ([]invoice.Invoice, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []invoice.Invoice
	for _, inv := range r.data {
		if inv.Status == invoice.StatusPending && !inv.DueDate.IsZero() && now.After(inv.DueDate) {
			result = append(result, inv)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].InvoiceID < result[j].InvoiceID })
	return result, nil
}

// UpdateStatus overwrites a stored invoice's lifecycle fields.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, inv *invoice.Invoice) error {
	_ = ctx
	if inv == nil {
		return invoice.ErrInvoiceNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[inv.InvoiceID]; !ok {
		return invoice.ErrInvoiceNotFound
	}
	r.data[inv.InvoiceID] = *inv
	return nil
}

// Count reports the stored invoice count, for assertion convenience.
func (r *InvoiceRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
