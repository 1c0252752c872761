package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/handjoints/internal/tracker"
)

// Controller starts and stops tracking sessions.
type Controller interface {
	Start(ctx context.Context) (string, error)
	Stop()
	Status() tracker.Status
}

// TrackerHandler exposes the tracker lifecycle.
type TrackerHandler struct {
	tracker Controller
	// ctx bounds sessions started over HTTP. Request contexts end with the
	// request, so they cannot be used.
	ctx context.Context
}

// NewTrackerHandler creates a TrackerHandler. Sessions it starts end when ctx
// is canceled.
func NewTrackerHandler(ctx context.Context, t Controller) *TrackerHandler {
	return &TrackerHandler{tracker: t, ctx: ctx}
}

// ServeHTTP routes GET /api/tracker, POST /api/tracker/start and
// POST /api/tracker/stop.
func (h *TrackerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.TrimPrefix(r.URL.Path, "/api/tracker")
	action = strings.TrimPrefix(action, "/")

	switch action {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, h.tracker.Status())
	case "start":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if _, err := h.tracker.Start(h.ctx); err != nil {
			if errors.Is(err, tracker.ErrSessionRunning) {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, h.tracker.Status())
	case "stop":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.tracker.Stop()
		writeJSON(w, http.StatusOK, h.tracker.Status())
	default:
		http.NotFound(w, r)
	}
}
