package application

import (
	"context"
	"errors"
	"time"

	invoice "nhatro-cloud/internal/invoice/domain"
	"nhatro-cloud/internal/observability/metrics"
	reading "nhatro-cloud/internal/reading/domain"
)

// LifecycleService mutates invoice status after generation.
type LifecycleService struct {
	repo  invoice.Repository
	clock Clock
}

// NewLifecycleService constructs the service.
func NewLifecycleService(repo invoice.Repository, clock Clock) (*LifecycleService, error) {
	if repo == nil {
		return nil, errors.New("invoice lifecycle: nil repository")
	}
	if clock == nil {
		return nil, errors.New("invoice lifecycle: nil clock")
	}
	return &LifecycleService{repo: repo, clock: clock}, nil
}

// MarkPaid records payment on a pending or overdue invoice.
func (s *LifecycleService) MarkPaid(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	result := metrics.ResultSuccess
	defer func() {
		metrics.IncMarkPaid(result)
	}()

	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if inv == nil {
		result = metrics.ResultError
		return nil, invoice.ErrInvoiceNotFound
	}
	if err := inv.MarkPaid(s.clock.Now()); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, inv); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	return inv, nil
}

// MonthInvoices returns a month's invoices with their summary fold.
func (s *LifecycleService) MonthInvoices(ctx context.Context, monthValue string) ([]invoice.Invoice, invoice.Summary, error) {
	month, err := reading.ParseMonth(monthValue)
	if err != nil {
		return nil, invoice.Summary{}, err
	}
	list, err := s.repo.ListByMonth(ctx, month)
	if err != nil {
		return nil, invoice.Summary{}, err
	}
	return list, invoice.Summarize(list), nil
}

// Get loads one invoice.
func (s *LifecycleService) Get(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, invoice.ErrInvoiceNotFound
	}
	return inv, nil
}

// OverdueSweeper flips pending invoices to overdue once their due date
// has passed. The decision of when PENDING becomes OVERDUE lives here,
// on an explicit due date, rather than as a display-time label.
type OverdueSweeper struct {
	repo  invoice.Repository
	clock Clock
}

// NewOverdueSweeper constructs the sweeper.
func NewOverdueSweeper(repo invoice.Repository, clock Clock) (*OverdueSweeper, error) {
	if repo == nil {
		return nil, errors.New("overdue sweeper: nil repository")
	}
	if clock == nil {
		return nil, errors.New("overdue sweeper: nil clock")
	}
	return &OverdueSweeper{repo: repo, clock: clock}, nil
}

// Tick marks every due pending invoice overdue and reports how many flipped.
func (s *OverdueSweeper) Tick(ctx context.Context, now time.Time) (int, error) {
	if now.IsZero() {
		now = s.clock.Now()
	}
	due, err := s.repo.ListDuePending(ctx, now)
	if err != nil {
		metrics.ObserveOverdueSweep(metrics.ResultError, 0)
		return 0, err
	}

	flipped := 0
	var firstErr error
	for i := range due {
		inv := due[i]
		if err := inv.MarkOverdue(now); err != nil {
			continue
		}
		if err := s.repo.UpdateStatus(ctx, &inv); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		flipped++
	}
	if firstErr != nil {
		metrics.ObserveOverdueSweep(metrics.ResultError, flipped)
		return flipped, firstErr
	}
	metrics.ObserveOverdueSweep(metrics.ResultSuccess, flipped)
	return flipped, nil
}
