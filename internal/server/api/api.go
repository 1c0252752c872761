// Package api provides HTTP API handlers for the hand joint tracking service.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ayusman/handjoints/internal/joints"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// groupParam reads the group query parameter, falling back to def when the
// parameter is absent.
func groupParam(r *http.Request, def joints.Group) (joints.Group, error) {
	v := strings.TrimSpace(r.URL.Query().Get("group"))
	if v == "" {
		return def, nil
	}
	return joints.ParseGroup(v)
}
