package joints

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Separators of the consumer string protocol: "x1,y1|x2,y2|x3,y3".
const (
	PointSeparator = "|"
	CoordSeparator = ","
)

// ErrMalformed is returned when a joint string cannot be decoded.
var ErrMalformed = errors.New("malformed joint string")

// Encode serializes the set's points in canonical order. Each coordinate is
// written in its shortest decimal form, so the sentinel is "-1,-1".
func Encode(set JointSet) string {
	return EncodePoints(set.Points)
}

// EncodePoints serializes an ordered point sequence.
func EncodePoints(points []Point) string {
	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteString(PointSeparator)
		}
		b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
		b.WriteString(CoordSeparator)
		b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
	}
	return b.String()
}

// String returns the boundary protocol form of the set.
func (s JointSet) String() string {
	return Encode(s)
}

// Decode parses a joint string back into its ordered points. Whitespace
// around coordinates is ignored. An empty string decodes to no points.
func Decode(s string) ([]Point, error) {
	if strings.TrimSpace(s) == "" {
		return []Point{}, nil
	}

	pairs := strings.Split(s, PointSeparator)
	points := make([]Point, 0, len(pairs))
	for i, pair := range pairs {
		coords := strings.Split(pair, CoordSeparator)
		if len(coords) != 2 {
			return nil, fmt.Errorf("%w: point %d has %d coordinates", ErrMalformed, i, len(coords))
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: point %d x: %v", ErrMalformed, i, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: point %d y: %v", ErrMalformed, i, err)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

// DecodeSet parses a joint string and checks it against the group's fixed
// length.
func DecodeSet(s string, group Group) (JointSet, error) {
	points, err := Decode(s)
	if err != nil {
		return JointSet{}, err
	}
	if len(points) != group.Len() {
		return JointSet{}, fmt.Errorf("%w: %s expects %d points, got %d",
			ErrMalformed, group, group.Len(), len(points))
	}
	return JointSet{Group: group, Points: points}, nil
}
