package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ayusman/handjoints/internal/joints"
	"github.com/ayusman/handjoints/internal/store"
)

var validate = validator.New()

// Configurer applies tracker settings to the next session.
type Configurer interface {
	Configure(group joints.Group, opts joints.Options) error
}

// SettingsHandler reads and updates the persisted tracker settings.
type SettingsHandler struct {
	store    *store.Store
	tracker  Configurer
	defaults store.TrackerSettings
}

// NewSettingsHandler creates a SettingsHandler. tracker may be nil, in which
// case updates are only persisted.
func NewSettingsHandler(s *store.Store, tracker Configurer, defaults store.TrackerSettings) *SettingsHandler {
	return &SettingsHandler{store: s, tracker: tracker, defaults: defaults}
}

type settingsRequest struct {
	Group            string   `json:"group"             validate:"required,oneof=0 1 2 all wrist fingertips"`
	ConfidenceCutoff *float64 `json:"confidence_cutoff" validate:"required,gte=0,lte=1"`
	Precision        *int     `json:"precision"         validate:"required,gte=0,lte=9"`
}

type settingsResponse struct {
	Group            string  `json:"group"`
	ConfidenceCutoff float64 `json:"confidence_cutoff"`
	Precision        int     `json:"precision"`
}

func toSettingsResponse(ts store.TrackerSettings) settingsResponse {
	return settingsResponse{
		Group:            ts.Group.String(),
		ConfidenceCutoff: ts.Options.ConfidenceCutoff,
		Precision:        ts.Options.Precision,
	}
}

// ServeHTTP handles GET and PUT /api/settings.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	ts, err := h.store.Settings().LoadTrackerSettings(h.defaults)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(ts))
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	group, err := joints.ParseGroup(req.Group)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ts := store.TrackerSettings{
		Group: group,
		Options: joints.Options{
			ConfidenceCutoff: *req.ConfidenceCutoff,
			Precision:        *req.Precision,
		},
	}

	if err := h.store.Settings().SaveTrackerSettings(ts); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}
	if h.tracker != nil {
		if err := h.tracker.Configure(ts.Group, ts.Options); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to apply settings")
			return
		}
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(ts))
}
