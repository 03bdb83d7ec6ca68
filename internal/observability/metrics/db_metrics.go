package metrics

import (
	"database/sql"
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

func registerDBMetrics(db *sql.DB, logger *log.Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "invoices_unpaid",
			Help: "Invoices currently pending or overdue",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM invoices WHERE status IN ('PENDING','OVERDUE') AND is_deleted = FALSE")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "readings_incomplete",
			Help: "Utility readings whose end meters are still unread",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM utility_readings WHERE (electricity_end IS NULL OR water_end IS NULL) AND is_deleted = FALSE")
		},
	))
}

func queryCount(db *sql.DB, logger *log.Logger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.Printf("metrics query failed: %v", err)
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
