package tracker

import (
	"context"
	"time"

	"github.com/ayusman/handjoints/internal/joints"
)

// capture is the session's serial worker. On every tick it reads one frame,
// runs the detector and pushes the result. Estimator errors push nothing, so
// the previously published sets stay current. It closes out when done.
func (t *Tracker) capture(ctx context.Context, out chan<- joints.HandFrame) {
	defer close(out)

	ticker := time.NewTicker(frameInterval(t.config.Camera.FPS()))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame, err := t.config.Camera.ReadFrame()
		if err != nil {
			t.log.Warn("error reading frame", "err", err)
			continue
		}

		hand, err := t.config.Detector.Detect(frame)
		frame.Close()

		if err != nil {
			if t.recordFailure(err) {
				return
			}
			continue
		}
		t.consecutive = 0

		select {
		case out <- hand:
		case <-ctx.Done():
			return
		}
	}
}

// recordFailure counts an estimator error and reports whether the session
// should halt.
func (t *Tracker) recordFailure(err error) bool {
	t.failures.Add(1)
	t.metrics.failures.Inc()
	t.consecutive++

	t.log.Warn("estimator failed", "err", err, "consecutive", t.consecutive)

	limit := t.config.MaxConsecutiveFailures
	if limit <= 0 || t.consecutive < limit {
		return false
	}

	t.mu.Lock()
	if t.stopReason == "" {
		t.stopReason = StopReasonFailures
	}
	t.mu.Unlock()

	t.log.Error("halting session after consecutive estimator failures", "failures", t.consecutive)
	return true
}

// Feed consumes a stream of hand frames, normalizing each one for every group
// and publishing the results. It returns nil when in is closed and ctx.Err()
// when ctx is canceled first. Feed can run without Start for callers that
// produce frames themselves.
func (t *Tracker) Feed(ctx context.Context, in <-chan joints.HandFrame) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-in:
			if !ok {
				return nil
			}
			t.Publish(frame)
		}
	}
}

// Publish normalizes one frame for every group, stores the results as the
// latest sets and offers them to subscribers.
func (t *Tracker) Publish(frame joints.HandFrame) {
	t.mu.RLock()
	opts := t.options
	primary := t.group
	t.mu.RUnlock()

	groups := joints.Groups()
	sets := make([]joints.JointSet, len(groups))
	for i, g := range groups {
		sets[i] = joints.Normalize(frame, g, opts)
	}

	hand := false
	for _, set := range sets {
		if set.Group == joints.GroupAll {
			hand = set.DetectedCount() > 0
		}
		if set.Group == primary {
			t.metrics.jointsDetected.WithLabelValues(primary.String()).Set(float64(set.DetectedCount()))
		}
	}

	t.frames.Add(1)
	t.metrics.frames.Inc()
	if hand {
		t.handFrames.Add(1)
		t.metrics.handDetected.Set(1)
	} else {
		t.metrics.handDetected.Set(0)
	}

	t.mu.Lock()
	for _, set := range sets {
		t.latest[set.Group] = set
	}
	t.hand = hand
	t.mu.Unlock()

	// Held while offering so unsubscribe cannot close a channel mid-send.
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, sub := range t.subs {
		for _, set := range sets {
			if set.Group == sub.group {
				sub.offer(copySet(set))
			}
		}
	}
}
