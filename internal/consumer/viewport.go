// Package consumer implements the receiving side of the joint string
// protocol: decoding, mirroring and scaling normalized joints into a
// viewport.
package consumer

import (
	"fmt"

	"github.com/ayusman/handjoints/internal/joints"
)

// DefaultXScale stretches the wrist's horizontal screen position to make up
// for the camera's narrower field of view.
const DefaultXScale = 1.2

// Viewport is the target surface in pixels.
type Viewport struct {
	Width  float64
	Height float64
}

// ToScreen mirrors a normalized point horizontally and scales it to the
// viewport. The sentinel passes through unchanged.
func (v Viewport) ToScreen(p joints.Point) joints.Point {
	if p.IsSentinel() {
		return p
	}
	return joints.Point{
		X: (1 - p.X) * v.Width,
		Y: p.Y * v.Height,
	}
}

// Project maps every point of a sequence into the viewport.
func (v Viewport) Project(points []joints.Point) []joints.Point {
	out := make([]joints.Point, len(points))
	for i, p := range points {
		out[i] = v.ToScreen(p)
	}
	return out
}

// Detected reports whether none of the points is the sentinel. Consumers
// skip a frame entirely when any joint is lost.
func Detected(points []joints.Point) bool {
	for _, p := range points {
		if p.IsSentinel() {
			return false
		}
	}
	return len(points) > 0
}

// Parse decodes a joint string and projects it into the viewport.
func (v Viewport) Parse(s string) ([]joints.Point, error) {
	points, err := joints.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("parse joints: %w", err)
	}
	return v.Project(points), nil
}
