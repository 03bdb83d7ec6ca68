package application

import (
	"context"
	"errors"
	"testing"
	"time"

	invoice "nhatro-cloud/internal/invoice/domain"
	invoicememory "nhatro-cloud/internal/invoice/infrastructure/memory"
)

func storeInvoice(t *testing.T, repo *invoicememory.InvoiceRepository, roomID string, status invoice.Status, due time.Time) *invoice.Invoice {
	t.Helper()
	now := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	inv, err := invoice.New(roomID, roomID, "2026-03", 1000000, 0, 0, 0, due, now)
	if err != nil {
		t.Fatalf("new invoice: %v", err)
	}
	if err := repo.Create(context.Background(), inv); err != nil {
		t.Fatalf("store invoice: %v", err)
	}
	if status != invoice.StatusPending {
		inv.Status = status
		if err := repo.UpdateStatus(context.Background(), inv); err != nil {
			t.Fatalf("set status: %v", err)
		}
	}
	return inv
}

func TestMarkPaid_FromPendingAndOverdue(t *testing.T) {
	repo := invoicememory.NewInvoiceRepository()
	clock := fixedClock{now: time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC)}
	svc, err := NewLifecycleService(repo, clock)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	due := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)

	pending := storeInvoice(t, repo, "room-1", invoice.StatusPending, due)
	paid, err := svc.MarkPaid(context.Background(), pending.InvoiceID)
	if err != nil {
		t.Fatalf("mark paid pending: %v", err)
	}
	if paid.Status != invoice.StatusPaid || !paid.PaidAt.Equal(clock.now) {
		t.Fatalf("unexpected invoice after payment: %+v", paid)
	}

	overdue := storeInvoice(t, repo, "room-2", invoice.StatusOverdue, due)
	if _, err := svc.MarkPaid(context.Background(), overdue.InvoiceID); err != nil {
		t.Fatalf("mark paid overdue: %v", err)
	}

	// Paying again is invalid and must not change the store.
	if _, err := svc.MarkPaid(context.Background(), pending.InvoiceID); !errors.Is(err, invoice.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), pending.InvoiceID)
	if stored.Status != invoice.StatusPaid {
		t.Fatalf("failed transition must not mutate stored status: %s", stored.Status)
	}
}

func TestMarkPaid_UnknownInvoice(t *testing.T) {
	repo := invoicememory.NewInvoiceRepository()
	svc, err := NewLifecycleService(repo, fixedClock{now: time.Now().UTC()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.MarkPaid(context.Background(), "inv-missing"); !errors.Is(err, invoice.ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
	}
}

func TestMonthInvoices_SummaryInvariants(t *testing.T) {
	repo := invoicememory.NewInvoiceRepository()
	clock := fixedClock{now: time.Date(2026, time.April, 20, 0, 0, 0, 0, time.UTC)}
	svc, err := NewLifecycleService(repo, clock)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	due := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)

	storeInvoice(t, repo, "room-1", invoice.StatusPending, due)
	storeInvoice(t, repo, "room-2", invoice.StatusOverdue, due)
	paid := storeInvoice(t, repo, "room-3", invoice.StatusPending, due)
	if _, err := svc.MarkPaid(context.Background(), paid.InvoiceID); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	list, summary, err := svc.MonthInvoices(context.Background(), "2026-03")
	if err != nil {
		t.Fatalf("month invoices: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 invoices, got %d", len(list))
	}
	if summary.Paid+summary.Pending+summary.Overdue != summary.Total {
		t.Fatal("count invariant broken")
	}
	if summary.PaidAmount+summary.PendingAmount != summary.TotalAmount {
		t.Fatal("amount invariant broken")
	}
}

func TestOverdueSweeper_FlipsOnlyDuePending(t *testing.T) {
	repo := invoicememory.NewInvoiceRepository()
	now := time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC)
	sweeper, err := NewOverdueSweeper(repo, fixedClock{now: now})
	if err != nil {
		t.Fatalf("new sweeper: %v", err)
	}

	due := storeInvoice(t, repo, "room-1", invoice.StatusPending, time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC))
	notDue := storeInvoice(t, repo, "room-2", invoice.StatusPending, time.Date(2026, time.April, 20, 0, 0, 0, 0, time.UTC))
	alreadyPaid := storeInvoice(t, repo, "room-3", invoice.StatusPaid, time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC))

	flipped, err := sweeper.Tick(context.Background(), now)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if flipped != 1 {
		t.Fatalf("expected exactly one flip, got %d", flipped)
	}

	check := func(id string, want invoice.Status) {
		t.Helper()
		inv, _ := repo.GetByID(context.Background(), id)
		if inv.Status != want {
			t.Fatalf("%s: expected %s, got %s", id, want, inv.Status)
		}
	}
	check(due.InvoiceID, invoice.StatusOverdue)
	check(notDue.InvoiceID, invoice.StatusPending)
	check(alreadyPaid.InvoiceID, invoice.StatusPaid)

	// A second tick finds nothing left to flip.
	flipped, err = sweeper.Tick(context.Background(), now)
	if err != nil || flipped != 0 {
		t.Fatalf("second tick: flipped=%d err=%v", flipped, err)
	}
}
