package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"nhatro-cloud/internal/audit"
	"nhatro-cloud/internal/auth"
	application "nhatro-cloud/internal/invoice/application"
	invoice "nhatro-cloud/internal/invoice/domain"
	"nhatro-cloud/internal/observability/metrics"
	reading "nhatro-cloud/internal/reading/domain"
)

// InvoiceHandler handles invoice APIs.
type InvoiceHandler struct {
	generator   *application.Generator
	lifecycle   *application.LifecycleService
	config      application.BillingConfig
	auditLogger audit.Logger
}

// NewInvoiceHandler constructs a handler.
func NewInvoiceHandler(generator *application.Generator, lifecycle *application.LifecycleService, config application.BillingConfig, auditLogger audit.Logger) (*InvoiceHandler, error) {
	if generator == nil {
		return nil, errors.New("invoice handler: nil generator")
	}
	if lifecycle == nil {
		return nil, errors.New("invoice handler: nil lifecycle service")
	}
	return &InvoiceHandler{generator: generator, lifecycle: lifecycle, config: config, auditLogger: auditLogger}, nil
}

// ServeHTTP handles invoice routes under /api/v1/invoices.
func (h *InvoiceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/invoices/generate-month" && r.Method == http.MethodPost {
		h.handleGenerateMonth(w, r)
		return
	}
	if path == "/api/v1/invoices" && r.Method == http.MethodGet {
		h.handleList(w, r)
		return
	}
	if strings.HasPrefix(path, "/api/v1/invoices/") {
		rest := strings.TrimPrefix(path, "/api/v1/invoices/")
		h.handleByID(w, r, rest)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *InvoiceHandler) handleGenerateMonth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month string `json:"month"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	batch, err := h.generator.GenerateMonth(r.Context(), req.Month)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(batch)
	h.logAudit(r, "", "", "invoice.generate-month", map[string]any{
		"month":   req.Month,
		"created": len(batch.Created),
		"skipped": len(batch.Skipped),
		"failed":  len(batch.Failed),
	})
}

func (h *InvoiceHandler) handleList(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	invoices, summary, err := h.lifecycle.MonthInvoices(r.Context(), month)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	data := make([]invoiceJSON, 0, len(invoices))
	for i := range invoices {
		data = append(data, toInvoiceJSON(&invoices[i]))
	}
	resp := struct {
		Data    []invoiceJSON   `json:"data"`
		Summary invoice.Summary `json:"summary"`
	}{Data: data, Summary: summary}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *InvoiceHandler) handleByID(w http.ResponseWriter, r *http.Request, rest string) {
	if rest == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	if len(parts) == 1 && r.Method == http.MethodGet {
		h.handleGet(w, r, id)
		return
	}
	if len(parts) == 2 {
		switch parts[1] {
		case "mark-paid":
			if r.Method == http.MethodPut {
				h.handleMarkPaid(w, r, id)
				return
			}
		case "send-reminder":
			if r.Method == http.MethodPut {
				h.handleSendReminder(w, r, id)
				return
			}
		case "payment-ref":
			if r.Method == http.MethodGet {
				h.handlePaymentRef(w, r, id)
				return
			}
		case "export.pdf":
			if r.Method == http.MethodGet {
				h.handleExportPDF(w, r, id)
				return
			}
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *InvoiceHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	inv, err := h.lifecycle.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toInvoiceJSON(inv))
}

func (h *InvoiceHandler) handleMarkPaid(w http.ResponseWriter, r *http.Request, id string) {
	inv, err := h.lifecycle.MarkPaid(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toInvoiceJSON(inv))
	h.logAudit(r, inv.RoomID, inv.InvoiceID, "invoice.mark-paid", map[string]any{
		"amount": inv.TotalAmount,
		"month":  inv.Month.String(),
	})
}

func (h *InvoiceHandler) handleSendReminder(w http.ResponseWriter, r *http.Request, id string) {
	inv, err := h.lifecycle.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !inv.Unpaid() {
		http.Error(w, invoice.ErrInvalidTransition.Error(), http.StatusConflict)
		return
	}
	resp := map[string]any{
		"invoiceId": inv.InvoiceID,
		"roomName":  inv.RoomName,
		"amount":    inv.TotalAmount,
		"reference": TransferNote(inv.Month),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
	h.logAudit(r, inv.RoomID, inv.InvoiceID, "invoice.send-reminder", map[string]any{
		"status": string(inv.Status),
		"month":  inv.Month.String(),
	})
}

func (h *InvoiceHandler) handlePaymentRef(w http.ResponseWriter, r *http.Request, id string) {
	inv, err := h.lifecycle.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	ref, err := BuildPaymentReference(inv, h.config.Payee)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ref)
}

func (h *InvoiceHandler) handleExportPDF(w http.ResponseWriter, r *http.Request, id string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveInvoiceExport("pdf", result, time.Since(start))
	}()

	inv, err := h.lifecycle.Get(r.Context(), id)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}
	data, err := BuildInvoicePDF(inv, h.config.Currency)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export pdf error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, inv.RoomID, inv.InvoiceID, "invoice.export", map[string]any{"format": "pdf"})
}

func (h *InvoiceHandler) logAudit(r *http.Request, roomID, invoiceID, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:         auth.SubjectFromContext(r.Context()),
		Role:          string(auth.RoleFromContext(r.Context())),
		Action:        action,
		ResourceType:  "invoice",
		ResourceID:    invoiceID,
		RoomID:        roomID,
		Metadata:      payload,
		PayloadDigest: audit.DigestJSON(payload),
		IP:            audit.ClientIP(r),
		UserAgent:     r.UserAgent(),
	})
}

type invoiceJSON struct {
	InvoiceID         string `json:"invoiceId"`
	RoomID            string `json:"roomId"`
	RoomName          string `json:"roomName"`
	Month             string `json:"month"`
	RoomCharge        int64  `json:"roomCharge"`
	ElectricityCharge int64  `json:"electricityCharge"`
	WaterCharge       int64  `json:"waterCharge"`
	OtherCharges      int64  `json:"otherCharges"`
	TotalAmount       int64  `json:"totalAmount"`
	Status            string `json:"status"`
	DueDate           string `json:"dueDate"`
	PaidAt            string `json:"paidAt,omitempty"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

func toInvoiceJSON(inv *invoice.Invoice) invoiceJSON {
	out := invoiceJSON{
		InvoiceID:         inv.InvoiceID,
		RoomID:            inv.RoomID,
		RoomName:          inv.RoomName,
		Month:             inv.Month.String(),
		RoomCharge:        inv.RoomCharge,
		ElectricityCharge: inv.ElectricityCharge,
		WaterCharge:       inv.WaterCharge,
		OtherCharges:      inv.OtherCharges,
		TotalAmount:       inv.TotalAmount,
		Status:            string(inv.Status),
		DueDate:           inv.DueDate.UTC().Format(time.RFC3339),
		CreatedAt:         inv.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         inv.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if !inv.PaidAt.IsZero() {
		out.PaidAt = inv.PaidAt.UTC().Format(time.RFC3339)
	}
	return out
}

func respondServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, invoice.ErrInvoiceNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, invoice.ErrInvalidTransition), errors.Is(err, invoice.ErrDuplicateInvoice), errors.Is(err, invoice.ErrNotYetDue):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrPayeeNotConfigured):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, reading.ErrMonthFormatInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
