// Package joints turns raw per-frame hand joint detections into fixed-shape,
// rounded joint sets and encodes them for downstream consumers.
package joints

// JointName identifies one of the 21 standard hand landmarks.
type JointName string

// Hand landmark names.
const (
	Wrist JointName = "wrist"

	ThumbCMC JointName = "thumbCMC"
	ThumbMP  JointName = "thumbMP"
	ThumbIP  JointName = "thumbIP"
	ThumbTip JointName = "thumbTip"

	IndexMCP JointName = "indexMCP"
	IndexPIP JointName = "indexPIP"
	IndexDIP JointName = "indexDIP"
	IndexTip JointName = "indexTip"

	MiddleMCP JointName = "middleMCP"
	MiddlePIP JointName = "middlePIP"
	MiddleDIP JointName = "middleDIP"
	MiddleTip JointName = "middleTip"

	RingMCP JointName = "ringMCP"
	RingPIP JointName = "ringPIP"
	RingDIP JointName = "ringDIP"
	RingTip JointName = "ringTip"

	LittleMCP JointName = "littleMCP"
	LittlePIP JointName = "littlePIP"
	LittleDIP JointName = "littleDIP"
	LittleTip JointName = "littleTip"
)

// NumJoints is the size of the landmark vocabulary.
const NumJoints = 21

// landmarkOrder lists every joint in standard landmark index order.
var landmarkOrder = [NumJoints]JointName{
	Wrist,
	ThumbCMC, ThumbMP, ThumbIP, ThumbTip,
	IndexMCP, IndexPIP, IndexDIP, IndexTip,
	MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip,
	RingMCP, RingPIP, RingDIP, RingTip,
	LittleMCP, LittlePIP, LittleDIP, LittleTip,
}

// LandmarkOrder returns all joint names in standard landmark index order
// (index 0 is the wrist, index 20 the little fingertip).
func LandmarkOrder() []JointName {
	names := make([]JointName, NumJoints)
	copy(names, landmarkOrder[:])
	return names
}

// JointAt returns the joint name for a standard landmark index.
func JointAt(index int) (JointName, bool) {
	if index < 0 || index >= NumJoints {
		return "", false
	}
	return landmarkOrder[index], true
}

// Valid reports whether n belongs to the landmark vocabulary.
func (n JointName) Valid() bool {
	for _, name := range landmarkOrder {
		if name == n {
			return true
		}
	}
	return false
}

// Point is a 2D position in normalized image space with the origin at the
// lower-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sentinel marks a joint that was not detected in the frame.
var Sentinel = Point{X: -1, Y: -1}

// IsSentinel reports whether p is the "not detected" placeholder.
// Only X is checked, matching how consumers have always decoded it.
func (p Point) IsSentinel() bool {
	return p.X == -1
}

// Joint is one detected landmark.
type Joint struct {
	Position   Point   `json:"position"`
	Confidence float64 `json:"confidence"`
}

// HandFrame maps joint names to detections for a single hand in a single
// camera frame. A nil or empty HandFrame means no hand was found.
type HandFrame map[JointName]Joint

// Empty reports whether the frame holds no detections.
func (f HandFrame) Empty() bool {
	return len(f) == 0
}
