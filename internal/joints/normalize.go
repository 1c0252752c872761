package joints

import "math"

// Defaults used by the tracker and the boundary protocol.
const (
	DefaultConfidenceCutoff = 0.3
	DefaultPrecision        = 3
)

// Options controls filtering and rounding.
type Options struct {
	// ConfidenceCutoff is the confidence a joint must strictly exceed.
	ConfidenceCutoff float64 `json:"confidence_cutoff"`

	// Precision is the number of decimal places kept. Negative values are
	// treated as 0; values beyond what a float64 can hold leave coordinates
	// unrounded.
	Precision int `json:"precision"`
}

// DefaultOptions returns the cutoff and precision consumers expect.
func DefaultOptions() Options {
	return Options{
		ConfidenceCutoff: DefaultConfidenceCutoff,
		Precision:        DefaultPrecision,
	}
}

// JointSet is the normalized output for one group in one frame. Its length
// and order depend only on Group.
type JointSet struct {
	Group  Group   `json:"group"`
	Points []Point `json:"points"`
}

// Detected reports whether every joint in the set was detected.
// An empty set is never detected.
func (s JointSet) Detected() bool {
	if len(s.Points) == 0 {
		return false
	}
	for _, p := range s.Points {
		if p.IsSentinel() {
			return false
		}
	}
	return true
}

// DetectedCount returns how many points are not the sentinel.
func (s JointSet) DetectedCount() int {
	n := 0
	for _, p := range s.Points {
		if !p.IsSentinel() {
			n++
		}
	}
	return n
}

// Idle returns the all-sentinel set emitted when no hand is tracked.
func Idle(group Group) JointSet {
	return Normalize(nil, group, DefaultOptions())
}

// Normalize filters and rounds one frame's detections for the requested
// group. Joints that are missing or whose confidence does not exceed the
// cutoff become Sentinel. The result always has group.Len() points.
func Normalize(frame HandFrame, group Group, opts Options) JointSet {
	names := group.Joints()
	set := JointSet{
		Group:  group,
		Points: make([]Point, len(names)),
	}
	for i, name := range names {
		joint, ok := frame[name]
		if !ok || !(joint.Confidence > opts.ConfidenceCutoff) {
			set.Points[i] = Sentinel
			continue
		}
		set.Points[i] = Point{
			X: Round(joint.Position.X, opts.Precision),
			Y: Round(joint.Position.Y, opts.Precision),
		}
	}
	return set
}

// Round rounds v to the given number of decimal places, half away from zero.
// A negative precision rounds to an integer. When v scaled by the precision
// overflows, v is returned as is.
func Round(v float64, precision int) float64 {
	if precision < 0 {
		precision = 0
	}
	factor := math.Pow(10, float64(precision))
	scaled := v * factor
	if math.IsInf(factor, 0) || math.IsInf(scaled, 0) {
		return v
	}
	return math.Round(scaled) / factor
}
