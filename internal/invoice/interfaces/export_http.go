package interfaces

import (
	"fmt"
	"net/http"
	"time"

	application "nhatro-cloud/internal/invoice/application"
	"nhatro-cloud/internal/observability/metrics"
	reading "nhatro-cloud/internal/reading/domain"
)

// ExportInvoicesXLSXHandler serves the month workbook download.
type ExportInvoicesXLSXHandler struct {
	lifecycle *application.LifecycleService
}

// NewExportInvoicesXLSXHandler constructs a ExportInvoicesXLSXHandler.
func NewExportInvoicesXLSXHandler(lifecycle *application.LifecycleService) *ExportInvoicesXLSXHandler {
	return &ExportInvoicesXLSXHandler{lifecycle: lifecycle}
}

// ServeHTTP handles GET /api/v1/exports/invoices.xlsx.
func (h *ExportInvoicesXLSXHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.lifecycle == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveInvoiceExport("xlsx", result, time.Since(start))
	}()

	month, err := reading.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
		return
	}

	invoices, summary, err := h.lifecycle.MonthInvoices(r.Context(), month.String())
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}
	data, err := BuildMonthXLSX(month, invoices, summary)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export xlsx error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoices-%s.xlsx", month.String()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
