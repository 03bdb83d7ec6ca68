package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"nhatro-cloud/internal/audit"
	"nhatro-cloud/internal/auth"
	application "nhatro-cloud/internal/tenant/application"
	tenant "nhatro-cloud/internal/tenant/domain"
)

// TenantHandler handles tenant APIs.
type TenantHandler struct {
	service     *application.TenantService
	auditLogger audit.Logger
}

// NewTenantHandler constructs a handler.
func NewTenantHandler(service *application.TenantService, auditLogger audit.Logger) (*TenantHandler, error) {
	if service == nil {
		return nil, errors.New("tenant handler: nil service")
	}
	return &TenantHandler{service: service, auditLogger: auditLogger}, nil
}

// ServeHTTP handles tenant routes under /api/v1/tenants.
func (h *TenantHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/tenants" {
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	if strings.HasPrefix(path, "/api/v1/tenants/") {
		id := strings.TrimPrefix(path, "/api/v1/tenants/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, id)
		case http.MethodPut:
			h.handleUpdate(w, r, id)
		case http.MethodDelete:
			h.handleRemove(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

type tenantInputJSON struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	RoomID      string `json:"roomId"`
	MoveInDate  string `json:"moveInDate"`
	MoveOutDate string `json:"moveOutDate"`
	Status      string `json:"status"`
}

func (in tenantInputJSON) input() (application.TenantInput, error) {
	moveIn, err := parseDate(in.MoveInDate)
	if err != nil {
		return application.TenantInput{}, err
	}
	moveOut, err := parseDate(in.MoveOutDate)
	if err != nil {
		return application.TenantInput{}, err
	}
	return application.TenantInput{
		FullName:    in.FullName,
		PhoneNumber: in.PhoneNumber,
		RoomID:      in.RoomID,
		MoveInDate:  moveIn,
		MoveOutDate: moveOut,
		Status:      in.Status,
	}, nil
}

func (h *TenantHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req tenantInputJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	input, err := req.input()
	if err != nil {
		http.Error(w, "dates must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	t, err := h.service.Create(r.Context(), input)
	if err != nil {
		respondTenantError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toTenantJSON(t))
	h.logAudit(r, t, "tenant.create")
}

func (h *TenantHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		respondTenantError(w, err)
		return
	}
	data := make([]tenantJSON, 0, len(list))
	for i := range list {
		data = append(data, toTenantJSON(&list[i]))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Data []tenantJSON `json:"data"`
	}{Data: data})
}

func (h *TenantHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondTenantError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toTenantJSON(t))
}

func (h *TenantHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req tenantInputJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	input, err := req.input()
	if err != nil {
		http.Error(w, "dates must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	t, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		respondTenantError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toTenantJSON(t))
	h.logAudit(r, t, "tenant.update")
}

func (h *TenantHandler) handleRemove(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.Remove(r.Context(), id); err != nil {
		respondTenantError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	h.logAudit(r, &tenant.Tenant{ID: id}, "tenant.remove")
}

type tenantJSON struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	RoomID      string `json:"roomId,omitempty"`
	MoveInDate  string `json:"moveInDate,omitempty"`
	MoveOutDate string `json:"moveOutDate,omitempty"`
	Status      string `json:"status"`
}

func toTenantJSON(t *tenant.Tenant) tenantJSON {
	out := tenantJSON{
		ID:          t.ID,
		FullName:    t.FullName,
		PhoneNumber: t.PhoneNumber,
		RoomID:      t.RoomID,
		Status:      t.Status,
	}
	if !t.MoveInDate.IsZero() {
		out.MoveInDate = t.MoveInDate.UTC().Format("2006-01-02")
	}
	if !t.MoveOutDate.IsZero() {
		out.MoveOutDate = t.MoveOutDate.UTC().Format("2006-01-02")
	}
	return out
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", value)
}

func (h *TenantHandler) logAudit(r *http.Request, t *tenant.Tenant, action string) {
	if h.auditLogger == nil {
		return
	}
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "tenant",
		ResourceID:   t.ID,
		RoomID:       t.RoomID,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondTenantError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, tenant.ErrTenantNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
