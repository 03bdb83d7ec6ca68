package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"nhatro-cloud/internal/audit"
	"nhatro-cloud/internal/auth"
	settings "nhatro-cloud/internal/settings/domain"
)

// SettingsHandler serves the unit-price singleton.
type SettingsHandler struct {
	repo        settings.Repository
	auditLogger audit.Logger
}

// NewSettingsHandler constructs a handler.
func NewSettingsHandler(repo settings.Repository, auditLogger audit.Logger) (*SettingsHandler, error) {
	if repo == nil {
		return nil, errors.New("settings handler: nil repository")
	}
	return &SettingsHandler{repo: repo, auditLogger: auditLogger}, nil
}

// ServeHTTP handles /api/v1/settings.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/v1/settings" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPut:
		h.handleUpdate(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type settingsJSON struct {
	ElectricityUnitPrice int64  `json:"electricityUnitPrice"`
	WaterUnitPrice       int64  `json:"waterUnitPrice"`
	GarbageCharge        int64  `json:"garbageCharge"`
	UpdatedAt            string `json:"updatedAt,omitempty"`
}

func (h *SettingsHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	current, err := h.repo.Current(r.Context())
	if err != nil {
		respondSettingsError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toSettingsJSON(current))
}

func (h *SettingsHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req settingsJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	next := settings.Settings{
		ElectricityUnitPrice: req.ElectricityUnitPrice,
		WaterUnitPrice:       req.WaterUnitPrice,
		GarbageCharge:        req.GarbageCharge,
	}
	if err := next.Validate(); err != nil {
		respondSettingsError(w, err)
		return
	}
	updated, err := h.repo.Update(r.Context(), next)
	if err != nil {
		respondSettingsError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toSettingsJSON(updated))
	h.logAudit(r, updated)
}

func (h *SettingsHandler) logAudit(r *http.Request, updated settings.Settings) {
	if h.auditLogger == nil {
		return
	}
	meta, _ := json.Marshal(map[string]any{
		"electricityUnitPrice": updated.ElectricityUnitPrice,
		"waterUnitPrice":       updated.WaterUnitPrice,
		"garbageCharge":        updated.GarbageCharge,
	})
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:         auth.SubjectFromContext(r.Context()),
		Role:          string(auth.RoleFromContext(r.Context())),
		Action:        "settings.update",
		ResourceType:  "settings",
		ResourceID:    "settings",
		Metadata:      meta,
		PayloadDigest: audit.DigestJSON(meta),
		IP:            audit.ClientIP(r),
		UserAgent:     r.UserAgent(),
	})
}

func toSettingsJSON(s settings.Settings) settingsJSON {
	out := settingsJSON{
		ElectricityUnitPrice: s.ElectricityUnitPrice,
		WaterUnitPrice:       s.WaterUnitPrice,
		GarbageCharge:        s.GarbageCharge,
	}
	if !s.UpdatedAt.IsZero() {
		out.UpdatedAt = s.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func respondSettingsError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, settings.ErrSettingsNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, settings.ErrNegativePrice):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
