package apihttp

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	reading "nhatro-cloud/internal/reading/domain"
)

// StatsHandler serves the dashboard aggregates.
type StatsHandler struct {
	db *sql.DB
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(db *sql.DB) *StatsHandler {
	return &StatsHandler{db: db}
}

type dashboardStats struct {
	TotalRooms     int64  `json:"totalRooms"`
	OccupiedRooms  int64  `json:"occupiedRooms"`
	EmptyRooms     int64  `json:"emptyRooms"`
	OverdueRooms   int64  `json:"overdueRooms"`
	MonthlyRevenue int64  `json:"monthlyRevenue"`
	UnpaidInvoices int64  `json:"unpaidInvoices"`
	Month          string `json:"month"`
}

// ServeHTTP handles GET /api/v1/dashboard/stats. The month query
// parameter scopes the revenue figure; it defaults to the current
// month.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.db == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	monthValue := r.URL.Query().Get("month")
	if monthValue == "" {
		monthValue = time.Now().UTC().Format("2006-01")
	}
	month, err := reading.ParseMonth(monthValue)
	if err != nil {
		http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
		return
	}

	stats, err := queryDashboardStats(r.Context(), h.db, month)
	if err != nil {
		http.Error(w, "query stats error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stats)
}

func queryDashboardStats(ctx context.Context, db *sql.DB, month reading.Month) (dashboardStats, error) {
	stats := dashboardStats{Month: month.String()}

	err := db.QueryRowContext(ctx, `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE status = 'FULL' AND tenant_id IS NOT NULL)
FROM rooms
WHERE is_deleted = FALSE`).Scan(&stats.TotalRooms, &stats.OccupiedRooms)
	if err != nil {
		return dashboardStats{}, err
	}
	stats.EmptyRooms = stats.TotalRooms - stats.OccupiedRooms

	err = db.QueryRowContext(ctx, `
SELECT
	COUNT(DISTINCT room_id) FILTER (WHERE status = 'OVERDUE'),
	COUNT(*) FILTER (WHERE status IN ('PENDING', 'OVERDUE')),
	COALESCE(SUM(total_amount) FILTER (WHERE status = 'PAID' AND month = $1), 0)
FROM invoices
WHERE is_deleted = FALSE`, month.String()).Scan(&stats.OverdueRooms, &stats.UnpaidInvoices, &stats.MonthlyRevenue)
	if err != nil {
		return dashboardStats{}, err
	}

	return stats, nil
}
