// Package tracker runs a hand tracking session: it reads camera frames,
// runs the pose estimator and publishes normalized joint sets.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/handjoints/internal/capture"
	"github.com/ayusman/handjoints/internal/detector"
	"github.com/ayusman/handjoints/internal/joints"
	"github.com/ayusman/handjoints/internal/logger"
	"github.com/ayusman/handjoints/internal/store"
)

// Stop reasons recorded on finished sessions.
const (
	StopReasonStopped  = "stopped"
	StopReasonFailures = "estimator_failures"
	StopReasonCanceled = "canceled"
)

// ErrSessionRunning is returned by Start while a session is active.
var ErrSessionRunning = errors.New("tracking session already running")

// Config holds the tracker's collaborators and options.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector

	// Group is the primary group recorded on sessions and used by Status.
	Group   joints.Group
	Options joints.Options

	// FPS is the capture rate. Zero uses the camera default.
	FPS int

	// MaxConsecutiveFailures halts the session after that many estimator
	// errors in a row. Zero never halts.
	MaxConsecutiveFailures int

	// Store records sessions when set.
	Store  *store.Store
	Logger logger.Logger
}

// Status is a snapshot of the tracker state.
type Status struct {
	Running      bool               `json:"running"`
	SessionID    string             `json:"session_id,omitempty"`
	Group        joints.Group       `json:"group"`
	Options      joints.Options     `json:"options"`
	HandDetected bool               `json:"hand_detected"`
	Stats        store.SessionStats `json:"stats"`
	StopReason   string             `json:"stop_reason,omitempty"`
}

// Tracker owns one camera and one detector and runs at most one session at a
// time.
type Tracker struct {
	config  Config
	log     logger.Logger
	metrics *Metrics

	mu         sync.RWMutex
	group      joints.Group
	options    joints.Options
	latest     map[joints.Group]joints.JointSet
	subs       map[uint64]*subscriber
	nextSub    uint64
	sessionID  string
	cancel     context.CancelFunc
	done       chan struct{}
	stopReason string
	hand       bool

	frames      atomic.Int64
	handFrames  atomic.Int64
	failures    atomic.Int64
	consecutive int
}

// New creates a tracker. It does not open the camera.
func New(config Config) *Tracker {
	log := config.Logger
	if log == nil {
		log = logger.Nop()
	}
	if config.Options == (joints.Options{}) {
		config.Options = joints.DefaultOptions()
	}

	t := &Tracker{
		config:  config,
		log:     log.With("component", "tracker"),
		metrics: NewMetrics(),
		group:   config.Group,
		options: config.Options,
		latest:  make(map[joints.Group]joints.JointSet),
		subs:    make(map[uint64]*subscriber),
	}
	for _, g := range joints.Groups() {
		t.latest[g] = joints.Idle(g)
	}
	return t
}

// Metrics returns the tracker's metrics.
func (t *Tracker) Metrics() *Metrics {
	return t.metrics
}

// Configure sets the group and options used by the next session.
func (t *Tracker) Configure(group joints.Group, opts joints.Options) error {
	if !group.Valid() {
		return fmt.Errorf("configure tracker: %w", joints.ErrUnknownGroup)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.config.Group = group
	t.config.Options = opts
	if t.cancel == nil {
		t.group = group
		t.options = opts
	}
	return nil
}

// Running reports whether a session is active.
func (t *Tracker) Running() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cancel != nil
}

// Start opens the camera and begins a session. The session ends when ctx is
// canceled, Stop is called, or the estimator keeps failing.
func (t *Tracker) Start(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return "", ErrSessionRunning
	}
	if t.config.Camera == nil || t.config.Detector == nil {
		return "", errors.New("tracker needs a camera and a detector")
	}

	if err := t.config.Camera.Open(); err != nil {
		return "", fmt.Errorf("open camera: %w", err)
	}
	if t.config.FPS > 0 {
		t.config.Camera.SetFPS(t.config.FPS)
	}

	t.group = t.config.Group
	t.options = t.config.Options
	t.sessionID = uuid.NewString()
	t.stopReason = ""
	t.consecutive = 0
	t.frames.Store(0)
	t.handFrames.Store(0)
	t.failures.Store(0)

	if t.config.Store != nil {
		err := t.config.Store.Sessions().Create(&store.Session{
			ID:      t.sessionID,
			Group:   t.group,
			Options: t.options,
		})
		if err != nil {
			t.log.Warn("failed to record session", "session", t.sessionID, "err", err)
		}
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})

	go t.run(sessionCtx, t.sessionID, t.done)

	t.log.Info("tracking session started", "session", t.sessionID, "group", t.group, "fps", t.config.Camera.FPS())
	return t.sessionID, nil
}

// Stop ends the active session and waits for it to release the camera and
// detector. It is a no-op when no session is running.
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	if cancel != nil && t.stopReason == "" {
		t.stopReason = StopReasonStopped
	}
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Done returns a channel closed when the current or most recent session ends.
// It is nil before the first Start.
func (t *Tracker) Done() <-chan struct{} {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.done
}

// run drives one session and cleans up after it.
func (t *Tracker) run(ctx context.Context, sessionID string, done chan struct{}) {
	defer close(done)

	// capture closes frames when ctx is done or the session halts, so Feed
	// drains it without its own deadline.
	frames := make(chan joints.HandFrame, 1)
	go t.capture(ctx, frames)
	t.Feed(context.Background(), frames)

	if err := t.config.Camera.Close(); err != nil {
		t.log.Warn("error closing camera", "err", err)
	}
	if err := t.config.Detector.Close(); err != nil {
		t.log.Warn("error closing detector", "err", err)
	}

	t.mu.Lock()
	reason := t.stopReason
	if reason == "" {
		reason = StopReasonCanceled
		t.stopReason = reason
	}
	// Counters and the gauge belong to this session until cancel is cleared;
	// a Start after that point resets them.
	stats := t.stats()
	t.metrics.handDetected.Set(0)
	t.hand = false
	for _, g := range joints.Groups() {
		idle := joints.Idle(g)
		t.latest[g] = idle
		for _, sub := range t.subs {
			if sub.group == g {
				sub.offer(copySet(idle))
			}
		}
	}
	t.cancel()
	t.cancel = nil
	t.mu.Unlock()

	if t.config.Store != nil {
		if err := t.config.Store.Sessions().Finish(sessionID, stats, reason); err != nil {
			t.log.Warn("failed to finish session", "session", sessionID, "err", err)
		}
	}

	t.log.Info("tracking session stopped",
		"session", sessionID,
		"reason", reason,
		"frames", stats.Frames,
		"hand_frames", stats.HandFrames,
		"failures", stats.Failures,
	)
}

func (t *Tracker) stats() store.SessionStats {
	return store.SessionStats{
		Frames:     t.frames.Load(),
		HandFrames: t.handFrames.Load(),
		Failures:   t.failures.Load(),
	}
}

// Status returns a snapshot of the tracker state.
func (t *Tracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Status{
		Running:      t.cancel != nil,
		SessionID:    t.sessionID,
		Group:        t.group,
		Options:      t.options,
		HandDetected: t.hand,
		Stats:        t.stats(),
		StopReason:   t.stopReason,
	}
}

// Latest returns the most recent set for group. Before the first frame, and
// for the groups of a stopped session, this is the idle all-sentinel set.
func (t *Tracker) Latest(group joints.Group) joints.JointSet {
	t.mu.RLock()
	defer t.mu.RUnlock()
	set, ok := t.latest[group]
	if !ok {
		return joints.JointSet{Group: group, Points: []joints.Point{}}
	}
	return copySet(set)
}

// Encoded returns the latest set for group in the boundary string form.
func (t *Tracker) Encoded(group joints.Group) string {
	return t.Latest(group).String()
}

// Group returns the primary group of the current or next session.
func (t *Tracker) Group() joints.Group {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.group
}

func copySet(set joints.JointSet) joints.JointSet {
	points := make([]joints.Point, len(set.Points))
	copy(points, set.Points)
	return joints.JointSet{Group: set.Group, Points: points}
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	return time.Second / time.Duration(fps)
}
