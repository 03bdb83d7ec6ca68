package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"nhatro-cloud/internal/audit"
	"nhatro-cloud/internal/auth"
	application "nhatro-cloud/internal/room/application"
	room "nhatro-cloud/internal/room/domain"
)

// RoomHandler handles room inventory APIs.
type RoomHandler struct {
	service     *application.RoomService
	auditLogger audit.Logger
}

// NewRoomHandler constructs a handler.
func NewRoomHandler(service *application.RoomService, auditLogger audit.Logger) (*RoomHandler, error) {
	if service == nil {
		return nil, errors.New("room handler: nil service")
	}
	return &RoomHandler{service: service, auditLogger: auditLogger}, nil
}

// ServeHTTP handles room routes under /api/v1/rooms.
func (h *RoomHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/rooms" {
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
	if strings.HasPrefix(path, "/api/v1/rooms/") {
		rest := strings.TrimPrefix(path, "/api/v1/rooms/")
		h.handleByID(w, r, rest)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *RoomHandler) handleByID(w http.ResponseWriter, r *http.Request, rest string) {
	if rest == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	if len(parts) == 1 {
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
	if len(parts) == 2 && r.Method == http.MethodPut {
		switch parts[1] {
		case "assign-tenant":
			h.handleAssignTenant(w, r, id)
			return
		case "release-tenant":
			h.handleReleaseTenant(w, r, id)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

type roomInputJSON struct {
	Number        string `json:"number"`
	Price         int64  `json:"price"`
	Deposit       int64  `json:"deposit"`
	IsDepositPaid bool   `json:"isDepositPaid"`
}

func (in roomInputJSON) input() application.RoomInput {
	return application.RoomInput{
		Number:        in.Number,
		Price:         in.Price,
		Deposit:       in.Deposit,
		IsDepositPaid: in.IsDepositPaid,
	}
}

func (h *RoomHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req roomInputJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	rm, err := h.service.Create(r.Context(), req.input())
	if err != nil {
		respondRoomError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toRoomJSON(rm))
	h.logAudit(r, rm.ID, "room.create")
}

func (h *RoomHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		respondRoomError(w, err)
		return
	}
	data := make([]roomJSON, 0, len(list))
	for i := range list {
		data = append(data, toRoomJSON(&list[i]))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Data []roomJSON `json:"data"`
	}{Data: data})
}

func (h *RoomHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	rm, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondRoomError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toRoomJSON(rm))
}

func (h *RoomHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req roomInputJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	rm, err := h.service.Update(r.Context(), id, req.input())
	if err != nil {
		respondRoomError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toRoomJSON(rm))
	h.logAudit(r, rm.ID, "room.update")
}

func (h *RoomHandler) handleAssignTenant(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		TenantID   string `json:"tenantId"`
		MoveInDate string `json:"moveInDate"`
		Headcount  int    `json:"headcount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	moveIn, err := parseDate(req.MoveInDate)
	if err != nil {
		http.Error(w, "moveInDate must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	rm, err := h.service.AssignTenant(r.Context(), id, req.TenantID, moveIn, req.Headcount)
	if err != nil {
		respondRoomError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toRoomJSON(rm))
	h.logAudit(r, rm.ID, "room.assign-tenant")
}

func (h *RoomHandler) handleReleaseTenant(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		MoveOutDate string `json:"moveOutDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	moveOut, err := parseDate(req.MoveOutDate)
	if err != nil {
		http.Error(w, "moveOutDate must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	rm, err := h.service.ReleaseTenant(r.Context(), id, moveOut)
	if err != nil {
		respondRoomError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toRoomJSON(rm))
	h.logAudit(r, rm.ID, "room.release-tenant")
}

func (h *RoomHandler) handleRemove(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.Remove(r.Context(), id); err != nil {
		respondRoomError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	h.logAudit(r, id, "room.remove")
}

type roomJSON struct {
	ID             string `json:"id"`
	Number         string `json:"number"`
	Status         string `json:"status"`
	TenantID       string `json:"tenantId,omitempty"`
	Price          int64  `json:"price"`
	Deposit        int64  `json:"deposit"`
	IsDepositPaid  bool   `json:"isDepositPaid"`
	CurrentTenants int    `json:"currentTenants"`
	MoveInDate     string `json:"moveInDate,omitempty"`
	MoveOutDate    string `json:"moveOutDate,omitempty"`
	Occupied       bool   `json:"occupied"`
}

func toRoomJSON(rm *room.Room) roomJSON {
	out := roomJSON{
		ID:             rm.ID,
		Number:         rm.Number,
		Status:         rm.Status,
		TenantID:       rm.TenantID,
		Price:          rm.Price,
		Deposit:        rm.Deposit,
		IsDepositPaid:  rm.IsDepositPaid,
		CurrentTenants: rm.CurrentTenants,
		Occupied:       rm.Occupied(),
	}
	if !rm.MoveInDate.IsZero() {
		out.MoveInDate = rm.MoveInDate.UTC().Format("2006-01-02")
	}
	if !rm.MoveOutDate.IsZero() {
		out.MoveOutDate = rm.MoveOutDate.UTC().Format("2006-01-02")
	}
	return out
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", value)
}

func (h *RoomHandler) logAudit(r *http.Request, roomID, action string) {
	if h.auditLogger == nil {
		return
	}
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "room",
		ResourceID:   roomID,
		RoomID:       roomID,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondRoomError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, room.ErrDuplicateNumber):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
