package detector

import "github.com/ayusman/handjoints/internal/joints"

// Landmark is one raw estimator point in image coordinates, origin top-left.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`

	// Confidence is the per-point score. Nil when the estimator only scores
	// the whole hand.
	Confidence *float64 `json:"confidence,omitempty"`
}

// Hand is one raw estimator result.
type Hand struct {
	Points     []Landmark `json:"points"`
	Handedness string     `json:"handedness"` // "Left" or "Right"
	Score      float64    `json:"score"`
}

// HandFrame converts the raw points, indexed in standard landmark order, to a
// HandFrame. The y axis is flipped so the origin becomes the lower-left
// corner. Points without their own confidence inherit the hand score.
// Points beyond the landmark vocabulary are dropped.
func (h Hand) HandFrame() joints.HandFrame {
	frame := make(joints.HandFrame, len(h.Points))
	for i, p := range h.Points {
		name, ok := joints.JointAt(i)
		if !ok {
			break
		}
		conf := h.Score
		if p.Confidence != nil {
			conf = *p.Confidence
		}
		frame[name] = joints.Joint{
			Position:   joints.Point{X: p.X, Y: 1 - p.Y},
			Confidence: conf,
		}
	}
	return frame
}

// primaryHand picks the highest scoring hand. Only one hand is tracked.
func primaryHand(hands []Hand) (Hand, bool) {
	if len(hands) == 0 {
		return Hand{}, false
	}
	best := hands[0]
	for _, h := range hands[1:] {
		if h.Score > best.Score {
			best = h
		}
	}
	return best, true
}
