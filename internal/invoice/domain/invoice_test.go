package invoice

import (
	"errors"
	"testing"
	"time"
)

func TestNew_TotalIsSumOfComponents(t *testing.T) {
	now := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	inv, err := New("room-1", "101", "2026-03", 3000000, 105000, 45000, 50000, now.AddDate(0, 0, 9), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.TotalAmount != 3200000 {
		t.Fatalf("expected total 3200000, got %d", inv.TotalAmount)
	}
	if inv.TotalAmount != inv.RoomCharge+inv.ElectricityCharge+inv.WaterCharge+inv.OtherCharges {
		t.Fatal("total must equal sum of components")
	}
	if inv.Status != StatusPending {
		t.Fatalf("new invoice must be pending, got %s", inv.Status)
	}
}

func TestNew_RejectsNegativeCharge(t *testing.T) {
	now := time.Now().UTC()
	if _, err := New("room-1", "101", "2026-03", -1, 0, 0, 0, now, now); !errors.Is(err, ErrNegativeCharge) {
		t.Fatalf("expected ErrNegativeCharge, got %v", err)
	}
}

func TestNew_RejectsBadMonth(t *testing.T) {
	now := time.Now().UTC()
	if _, err := New("room-1", "101", "2026-3", 1, 0, 0, 0, now, now); err == nil {
		t.Fatal("expected month format error")
	}
}

func TestBuildInvoiceID_Deterministic(t *testing.T) {
	a, err := BuildInvoiceID("room-1", "2026-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := BuildInvoiceID("room-1", "2026-03")
	if a != b {
		t.Fatalf("ids differ: %s vs %s", a, b)
	}
	if a != "inv-room-1-202603" {
		t.Fatalf("unexpected id %s", a)
	}
}

func TestMarkPaid_Transitions(t *testing.T) {
	now := time.Now().UTC()

	pending := &Invoice{Status: StatusPending}
	if err := pending.MarkPaid(now); err != nil {
		t.Fatalf("pending -> paid should succeed: %v", err)
	}
	if pending.Status != StatusPaid || pending.PaidAt.IsZero() {
		t.Fatal("paid invoice must carry paid status and timestamp")
	}

	overdue := &Invoice{Status: StatusOverdue}
	if err := overdue.MarkPaid(now); err != nil {
		t.Fatalf("overdue -> paid should succeed: %v", err)
	}

	if err := pending.MarkPaid(now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("paying twice must fail with ErrInvalidTransition, got %v", err)
	}
}

func TestMarkOverdue(t *testing.T) {
	due := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)

	inv := &Invoice{Status: StatusPending, DueDate: due}
	if err := inv.MarkOverdue(due.Add(-time.Hour)); !errors.Is(err, ErrNotYetDue) {
		t.Fatalf("before due date expected ErrNotYetDue, got %v", err)
	}
	if err := inv.MarkOverdue(due.Add(time.Hour)); err != nil {
		t.Fatalf("after due date should succeed: %v", err)
	}
	if inv.Status != StatusOverdue {
		t.Fatalf("expected OVERDUE, got %s", inv.Status)
	}

	paid := &Invoice{Status: StatusPaid, DueDate: due}
	if err := paid.MarkOverdue(due.Add(time.Hour)); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("paid -> overdue must fail, got %v", err)
	}
}

func TestSummarize_Invariants(t *testing.T) {
	invoices := []Invoice{
		{Status: StatusPaid, TotalAmount: 3200000},
		{Status: StatusPending, TotalAmount: 2500000},
		{Status: StatusOverdue, TotalAmount: 1800000},
		{Status: StatusPaid, TotalAmount: 2000000},
	}
	s := Summarize(invoices)

	if s.Paid+s.Pending+s.Overdue != s.Total {
		t.Fatal("paid+pending+overdue must equal total")
	}
	if s.PaidAmount+s.PendingAmount != s.TotalAmount {
		t.Fatal("paidAmount+pendingAmount must equal totalAmount")
	}
	if s.Total != 4 || s.Paid != 2 || s.Pending != 1 || s.Overdue != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	// Overdue money is counted as still-pending collection.
	if s.PendingAmount != 2500000+1800000 {
		t.Fatalf("overdue amount must fold into pendingAmount, got %d", s.PendingAmount)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.TotalAmount != 0 {
		t.Fatalf("empty fold must be zero: %+v", s)
	}
}
