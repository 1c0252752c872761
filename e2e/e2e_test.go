package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/handjoints/internal/capture"
	"github.com/ayusman/handjoints/internal/consumer"
	"github.com/ayusman/handjoints/internal/detector"
	"github.com/ayusman/handjoints/internal/joints"
	"github.com/ayusman/handjoints/internal/logger"
	"github.com/ayusman/handjoints/internal/server"
	"github.com/ayusman/handjoints/internal/store"
	"github.com/ayusman/handjoints/internal/tracker"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func getBody(t *testing.T, client *http.Client, url string) (int, string) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s error = %v", url, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(data)
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	det := detector.NewMockDetector()
	det.SetFrame(detector.OpenPalmFrame())

	tr := tracker.New(tracker.Config{
		Camera:   capture.NewBlankCamera(),
		Detector: det,
		Group:    joints.GroupWristTriangle,
		FPS:      100,
		Store:    s,
		Logger:   logger.New(logger.TestConfig()),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := server.New(server.Config{
		Store:    s,
		Tracker:  tr,
		Defaults: store.TrackerSettings{Group: joints.GroupWristTriangle, Options: joints.DefaultOptions()},
		Context:  ctx,
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	client := ts.Client()

	t.Run("IdleBeforeTracking", func(t *testing.T) {
		code, body := getBody(t, client, ts.URL+"/api/joints")
		if code != http.StatusOK {
			t.Fatalf("status = %d, want %d", code, http.StatusOK)
		}
		if body != "-1,-1|-1,-1|-1,-1" {
			t.Errorf("body = %q, want idle wrist triangle", body)
		}
	})

	t.Run("StartTracking", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/tracker/start", "application/json", nil)
		if err != nil {
			t.Fatalf("start error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		waitFor(t, "hand tracked", func() bool { return tr.Status().HandDetected })
	})

	t.Run("ConsumerPlacesWrist", func(t *testing.T) {
		_, body := getBody(t, client, ts.URL+"/api/joints?group=wrist")

		vp := consumer.Viewport{Width: 1920, Height: 1080}
		anchor, ok, err := vp.AnchorFromString(body, 0)
		if err != nil {
			t.Fatalf("AnchorFromString(%q) error = %v", body, err)
		}
		if !ok {
			t.Fatalf("wrist should be tracked, got %q", body)
		}
		if anchor.Position.X <= 0 || anchor.Position.Y <= 0 {
			t.Errorf("anchor = %+v, want a point on screen", anchor)
		}
	})

	t.Run("FingertipsOverWebSocket", func(t *testing.T) {
		url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/joints/ws?group=fingertips"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("Dial() error = %v", err)
		}
		defer conn.Close()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))

		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}
		set, err := joints.DecodeSet(string(msg), joints.GroupFingertips)
		if err != nil {
			t.Fatalf("DecodeSet(%q) error = %v", msg, err)
		}
		if !set.Detected() {
			t.Errorf("fingertips = %v, want all detected", set.Points)
		}
	})

	t.Run("HandLostPublishesSentinels", func(t *testing.T) {
		det.SetFrame(nil)
		waitFor(t, "hand lost", func() bool { return !tr.Status().HandDetected })

		_, body := getBody(t, client, ts.URL+"/api/joints?group=fingertips")
		if body != "-1,-1|-1,-1|-1,-1|-1,-1|-1,-1" {
			t.Errorf("body = %q, want all sentinels", body)
		}
	})

	t.Run("UpdateSettings", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/settings",
			bytes.NewBufferString(`{"group":"fingertips","confidence_cutoff":0.5,"precision":2}`))
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("PUT settings error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	var sessionID string
	t.Run("StopTracking", func(t *testing.T) {
		sessionID = tr.Status().SessionID

		resp, err := client.Post(ts.URL+"/api/tracker/stop", "application/json", nil)
		if err != nil {
			t.Fatalf("stop error = %v", err)
		}
		resp.Body.Close()
		if tr.Running() {
			t.Error("tracker should be stopped")
		}
	})

	t.Run("SessionRecorded", func(t *testing.T) {
		code, body := getBody(t, client, ts.URL+"/api/sessions/"+sessionID)
		if code != http.StatusOK {
			t.Fatalf("status = %d, want %d", code, http.StatusOK)
		}

		var sess struct {
			Group      string `json:"group"`
			Running    bool   `json:"running"`
			StopReason string `json:"stop_reason"`
			Stats      struct {
				Frames     int64 `json:"frames"`
				HandFrames int64 `json:"hand_frames"`
			} `json:"stats"`
		}
		if err := json.Unmarshal([]byte(body), &sess); err != nil {
			t.Fatalf("failed to decode session: %v", err)
		}
		if sess.Group != "wrist" || sess.Running || sess.StopReason != tracker.StopReasonStopped {
			t.Errorf("session = %+v", sess)
		}
		if sess.Stats.HandFrames == 0 || sess.Stats.Frames < sess.Stats.HandFrames {
			t.Errorf("stats = %+v", sess.Stats)
		}
	})

	t.Run("NextSessionUsesNewSettings", func(t *testing.T) {
		id, err := tr.Start(ctx)
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		defer tr.Stop()

		sess, err := s.Sessions().GetByID(id)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if sess.Group != joints.GroupFingertips || sess.Options.Precision != 2 {
			t.Errorf("session = %+v, want fingertips at precision 2", sess)
		}
	})
}
