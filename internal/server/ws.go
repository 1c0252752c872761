package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/handjoints/internal/joints"
	"github.com/ayusman/handjoints/internal/logger"
	"github.com/ayusman/handjoints/internal/tracker"
)

const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// JointsFeedHandler streams boundary strings for one group over a WebSocket,
// one text message per published update.
type JointsFeedHandler struct {
	tracker *tracker.Tracker
	log     logger.Logger
}

// NewJointsFeedHandler creates a new JointsFeedHandler.
func NewJointsFeedHandler(t *tracker.Tracker, log logger.Logger) *JointsFeedHandler {
	return &JointsFeedHandler{tracker: t, log: log}
}

// ServeHTTP handles WebSocket upgrade requests on /api/joints/ws?group=...
func (h *JointsFeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	group := h.tracker.Group()
	if v := r.URL.Query().Get("group"); v != "" {
		g, err := joints.ParseGroup(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		group = g
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade error", "err", err)
		return
	}
	defer conn.Close()

	sub := h.tracker.Subscribe(group)
	defer sub.Close()

	// The read loop only notices the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.write(conn, h.tracker.Latest(group)); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case set, ok := <-sub.C():
			if !ok {
				return
			}
			if err := h.write(conn, set); err != nil {
				h.log.Debug("websocket write failed", "err", err)
				return
			}
		}
	}
}

func (h *JointsFeedHandler) write(conn *websocket.Conn, set joints.JointSet) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, []byte(set.String()))
}
