package consumer

import "github.com/ayusman/handjoints/internal/joints"

// Wrist triangle positions within a decoded wrist set.
const (
	wristIndex         = 0
	indexKnuckleIndex  = 1
	littleKnuckleIndex = 2
)

// WristAnchor is where a wrist-mounted object is placed and what it faces.
type WristAnchor struct {
	// Position is the wrist in screen space.
	Position joints.Point
	// Facing is the midpoint between the index and little knuckles.
	Facing joints.Point
}

// Anchor computes the wrist anchor from wrist triangle points that are
// already projected into screen space. It returns false when the input is
// not a full wrist triangle or any joint is lost.
func Anchor(points []joints.Point, xScale float64) (WristAnchor, bool) {
	if len(points) != joints.GroupWristTriangle.Len() || !Detected(points) {
		return WristAnchor{}, false
	}
	if xScale == 0 {
		xScale = DefaultXScale
	}

	wrist := points[wristIndex]
	index := points[indexKnuckleIndex]
	little := points[littleKnuckleIndex]

	return WristAnchor{
		Position: joints.Point{X: wrist.X * xScale, Y: wrist.Y},
		Facing: joints.Point{
			X: (index.X + little.X) / 2,
			Y: (index.Y + little.Y) / 2,
		},
	}, true
}

// AnchorFromString decodes a wrist triangle string, projects it into the
// viewport and computes its anchor.
func (v Viewport) AnchorFromString(s string, xScale float64) (WristAnchor, bool, error) {
	points, err := v.Parse(s)
	if err != nil {
		return WristAnchor{}, false, err
	}
	anchor, ok := Anchor(points, xScale)
	return anchor, ok, nil
}
