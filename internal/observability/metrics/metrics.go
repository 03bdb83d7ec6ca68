package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "nhatro_"

	// ResultSuccess labels a successful operation.
	ResultSuccess = "success"
	// ResultError labels a failed operation.
	ResultError = "error"

	// Room outcomes of one generation run.
	RoomOutcomeCreated        = "created"
	RoomOutcomeSkipped        = "skipped"
	RoomOutcomeMissingReading = "missing_reading"
	RoomOutcomeFailed         = "failed"
)

var (
	registerOnce sync.Once

	readingWrites *prometheus.CounterVec

	invoiceGenerateTotal   *prometheus.CounterVec
	invoiceGenerateLatency *prometheus.HistogramVec
	invoiceGenerateRooms   *prometheus.CounterVec

	invoiceMarkPaidTotal *prometheus.CounterVec

	invoiceExportTotal   *prometheus.CounterVec
	invoiceExportLatency *prometheus.HistogramVec

	overdueSweepTotal   *prometheus.CounterVec
	overdueSweepFlipped prometheus.Counter
)

// Init registers billing metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		readingWrites = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reading_writes_total",
				Help: "Total utility reading create/update operations by result",
			},
			[]string{"result"},
		)

		invoiceGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "invoice_generate_total",
				Help: "Total month generation runs by result",
			},
			[]string{"result"},
		)
		invoiceGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "invoice_generate_latency_seconds",
				Help:    "Month generation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		invoiceGenerateRooms = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "invoice_generate_rooms_total",
				Help: "Per-room outcomes of generation runs",
			},
			[]string{"outcome"},
		)

		invoiceMarkPaidTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "invoice_mark_paid_total",
				Help: "Total mark-paid operations by result",
			},
			[]string{"result"},
		)

		invoiceExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "invoice_export_total",
				Help: "Total invoice export operations by format and result",
			},
			[]string{"format", "result"},
		)
		invoiceExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "invoice_export_latency_seconds",
				Help:    "Invoice export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		overdueSweepTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "overdue_sweep_total",
				Help: "Total overdue sweep runs by result",
			},
			[]string{"result"},
		)
		overdueSweepFlipped = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "overdue_sweep_flipped_total",
				Help: "Total invoices flipped to overdue by the sweeper",
			},
		)

		prometheus.MustRegister(
			readingWrites,
			invoiceGenerateTotal,
			invoiceGenerateLatency,
			invoiceGenerateRooms,
			invoiceMarkPaidTotal,
			invoiceExportTotal,
			invoiceExportLatency,
			overdueSweepTotal,
			overdueSweepFlipped,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// IncReadingWrite counts one reading create/update by result.
func IncReadingWrite(result string) {
	if result == "" {
		result = ResultSuccess
	}
	if readingWrites != nil {
		readingWrites.WithLabelValues(result).Inc()
	}
}

// ObserveGenerateMonth records generation run latency and result.
func ObserveGenerateMonth(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if invoiceGenerateTotal != nil {
		invoiceGenerateTotal.WithLabelValues(result).Inc()
	}
	if invoiceGenerateLatency != nil {
		invoiceGenerateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddGenerateRoomOutcome counts per-room outcomes of a generation run.
func AddGenerateRoomOutcome(outcome string, count int) {
	if count <= 0 {
		return
	}
	if outcome == "" {
		outcome = RoomOutcomeFailed
	}
	if invoiceGenerateRooms != nil {
		invoiceGenerateRooms.WithLabelValues(outcome).Add(float64(count))
	}
}

// IncMarkPaid counts one mark-paid by result.
func IncMarkPaid(result string) {
	if result == "" {
		result = ResultSuccess
	}
	if invoiceMarkPaidTotal != nil {
		invoiceMarkPaidTotal.WithLabelValues(result).Inc()
	}
}

// ObserveInvoiceExport records export latency and result.
func ObserveInvoiceExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if invoiceExportTotal != nil {
		invoiceExportTotal.WithLabelValues(format, result).Inc()
	}
	if invoiceExportLatency != nil {
		invoiceExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// ObserveOverdueSweep records one sweeper run.
func ObserveOverdueSweep(result string, flipped int) {
	if result == "" {
		result = ResultSuccess
	}
	if overdueSweepTotal != nil {
		overdueSweepTotal.WithLabelValues(result).Inc()
	}
	if flipped > 0 && overdueSweepFlipped != nil {
		overdueSweepFlipped.Add(float64(flipped))
	}
}
