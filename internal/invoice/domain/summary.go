package invoice

// Summary folds one month's invoice set into counts and amounts.
// Overdue invoices count into PendingAmount: overdue is an unpaid
// state, not a separate money bucket.
type Summary struct {
	Total         int   `json:"total"`
	Paid          int   `json:"paid"`
	Pending       int   `json:"pending"`
	Overdue       int   `json:"overdue"`
	TotalAmount   int64 `json:"totalAmount"`
	PaidAmount    int64 `json:"paidAmount"`
	PendingAmount int64 `json:"pendingAmount"`
}

// Summarize computes the month summary in a single pass.
func Summarize(invoices []Invoice) Summary {
	var s Summary
	for _, inv := range invoices {
		s.Total++
		s.TotalAmount += inv.TotalAmount
		switch inv.Status {
		case StatusPaid:
			s.Paid++
			s.PaidAmount += inv.TotalAmount
		case StatusOverdue:
			s.Overdue++
			s.PendingAmount += inv.TotalAmount
		default:
			s.Pending++
			s.PendingAmount += inv.TotalAmount
		}
	}
	return s
}
