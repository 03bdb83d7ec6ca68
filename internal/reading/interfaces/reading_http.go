package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"nhatro-cloud/internal/audit"
	"nhatro-cloud/internal/auth"
	application "nhatro-cloud/internal/reading/application"
	reading "nhatro-cloud/internal/reading/domain"
	room "nhatro-cloud/internal/room/domain"
)

// ReadingHandler handles utility reading APIs.
type ReadingHandler struct {
	service     *application.ReadingService
	auditLogger audit.Logger
}

// NewReadingHandler constructs a handler.
func NewReadingHandler(service *application.ReadingService, auditLogger audit.Logger) (*ReadingHandler, error) {
	if service == nil {
		return nil, errors.New("reading handler: nil service")
	}
	return &ReadingHandler{service: service, auditLogger: auditLogger}, nil
}

// ServeHTTP handles reading routes under /api/v1/readings.
func (h *ReadingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/readings" {
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleRecord(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	if strings.HasPrefix(path, "/api/v1/readings/") {
		id := strings.TrimPrefix(path, "/api/v1/readings/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, id)
		case http.MethodPut:
			h.handleAmend(w, r, id)
		case http.MethodDelete:
			h.handleRemove(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

// roomRefJSON accepts the two historical wire shapes for a room
// reference, a bare id string or an embedded room object, and folds
// them into a room.Ref at decode time.
type roomRefJSON struct {
	ref room.Ref
}

func (rr *roomRefJSON) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		rr.ref = room.RefByID(id)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	rr.ref = room.RefByID(obj.ID)
	return nil
}

type meterValuesJSON struct {
	ElectricityStart int64  `json:"electricityStart"`
	ElectricityEnd   *int64 `json:"electricityEnd"`
	WaterStart       int64  `json:"waterStart"`
	WaterEnd         *int64 `json:"waterEnd"`
}

func (m meterValuesJSON) values() application.MeterValues {
	return application.MeterValues{
		ElectricityStart: m.ElectricityStart,
		ElectricityEnd:   m.ElectricityEnd,
		WaterStart:       m.WaterStart,
		WaterEnd:         m.WaterEnd,
	}
}

func (h *ReadingHandler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Room  roomRefJSON `json:"room"`
		Month string      `json:"month"`
		meterValuesJSON
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	rd, err := h.service.Record(r.Context(), req.Room.ref, req.Month, req.values())
	if err != nil {
		respondReadingError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toReadingJSON(rd))
	h.logAudit(r, rd, "reading.record")
}

func (h *ReadingHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.MonthReadings(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		respondReadingError(w, err)
		return
	}
	data := make([]readingJSON, 0, len(list))
	for i := range list {
		data = append(data, toReadingJSON(&list[i]))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Data []readingJSON `json:"data"`
	}{Data: data})
}

func (h *ReadingHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	rd, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondReadingError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toReadingJSON(rd))
}

func (h *ReadingHandler) handleAmend(w http.ResponseWriter, r *http.Request, id string) {
	var req meterValuesJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	rd, err := h.service.Amend(r.Context(), id, req.values())
	if err != nil {
		respondReadingError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toReadingJSON(rd))
	h.logAudit(r, rd, "reading.amend")
}

func (h *ReadingHandler) handleRemove(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.Remove(r.Context(), id); err != nil {
		respondReadingError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	h.logAudit(r, &reading.UtilityReading{ID: id}, "reading.remove")
}

type readingJSON struct {
	ID               string `json:"id"`
	RoomID           string `json:"roomId"`
	Month            string `json:"month"`
	ElectricityStart int64  `json:"electricityStart"`
	ElectricityEnd   *int64 `json:"electricityEnd"`
	WaterStart       int64  `json:"waterStart"`
	WaterEnd         *int64 `json:"waterEnd"`
	Complete         bool   `json:"complete"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

func toReadingJSON(rd *reading.UtilityReading) readingJSON {
	return readingJSON{
		ID:               rd.ID,
		RoomID:           rd.RoomID,
		Month:            rd.Month.String(),
		ElectricityStart: rd.ElectricityStart,
		ElectricityEnd:   rd.ElectricityEnd,
		WaterStart:       rd.WaterStart,
		WaterEnd:         rd.WaterEnd,
		Complete:         rd.Complete(),
		CreatedAt:        rd.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        rd.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *ReadingHandler) logAudit(r *http.Request, rd *reading.UtilityReading, action string) {
	if h.auditLogger == nil {
		return
	}
	meta, _ := json.Marshal(map[string]any{"month": rd.Month.String()})
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:         auth.SubjectFromContext(r.Context()),
		Role:          string(auth.RoleFromContext(r.Context())),
		Action:        action,
		ResourceType:  "reading",
		ResourceID:    rd.ID,
		RoomID:        rd.RoomID,
		Metadata:      meta,
		PayloadDigest: audit.DigestJSON(meta),
		IP:            audit.ClientIP(r),
		UserAgent:     r.UserAgent(),
	})
}

func respondReadingError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, reading.ErrReadingNotFound), errors.Is(err, room.ErrRoomNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, reading.ErrDuplicateReading):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
