package api

import (
	"io"
	"net/http"

	"github.com/ayusman/handjoints/internal/joints"
)

// JointSource provides the latest normalized joint sets.
type JointSource interface {
	Latest(group joints.Group) joints.JointSet
	Group() joints.Group
}

// JointsHandler serves the latest joint set for a group.
type JointsHandler struct {
	source JointSource
}

// NewJointsHandler creates a new JointsHandler reading from source.
func NewJointsHandler(source JointSource) *JointsHandler {
	return &JointsHandler{source: source}
}

type jointsResponse struct {
	Group    string         `json:"group"`
	Points   []joints.Point `json:"points"`
	Encoded  string         `json:"encoded"`
	Detected bool           `json:"detected"`
}

// ServeHTTP handles GET /api/joints?group=wrist&format=text|json. The text
// format is the pipe/comma boundary string.
func (h *JointsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	group, err := groupParam(r, h.source.Group())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	set := h.source.Latest(group)

	switch r.URL.Query().Get("format") {
	case "", "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, set.String())
	case "json":
		writeJSON(w, http.StatusOK, jointsResponse{
			Group:    group.String(),
			Points:   set.Points,
			Encoded:  set.String(),
			Detected: set.Detected(),
		})
	default:
		writeError(w, http.StatusBadRequest, "format must be text or json")
	}
}
