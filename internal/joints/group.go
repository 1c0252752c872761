package joints

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownGroup is returned when a joint group selector cannot be resolved.
var ErrUnknownGroup = errors.New("unknown joint group")

// Group selects a fixed, ordered subset of joints. The integer values are
// part of the consumer boundary protocol and must not change.
type Group int

const (
	// GroupAll is every landmark in standard index order.
	GroupAll Group = 0
	// GroupWristTriangle is wrist, index MCP and little MCP.
	GroupWristTriangle Group = 1
	// GroupFingertips is the five fingertips from thumb to little finger.
	GroupFingertips Group = 2
)

var (
	wristTriangle = []JointName{Wrist, IndexMCP, LittleMCP}
	fingertips    = []JointName{ThumbTip, IndexTip, MiddleTip, RingTip, LittleTip}
)

// Groups lists every selectable group.
func Groups() []Group {
	return []Group{GroupAll, GroupWristTriangle, GroupFingertips}
}

// Joints returns the canonical joint order for the group, or nil for an
// unknown group. The returned slice is owned by the caller.
func (g Group) Joints() []JointName {
	var src []JointName
	switch g {
	case GroupAll:
		src = landmarkOrder[:]
	case GroupWristTriangle:
		src = wristTriangle
	case GroupFingertips:
		src = fingertips
	default:
		return nil
	}
	names := make([]JointName, len(src))
	copy(names, src)
	return names
}

// Len is the fixed number of points a set of this group always carries.
func (g Group) Len() int {
	switch g {
	case GroupAll:
		return NumJoints
	case GroupWristTriangle:
		return len(wristTriangle)
	case GroupFingertips:
		return len(fingertips)
	}
	return 0
}

// Valid reports whether g is a known group.
func (g Group) Valid() bool {
	return g >= GroupAll && g <= GroupFingertips
}

func (g Group) String() string {
	switch g {
	case GroupAll:
		return "all"
	case GroupWristTriangle:
		return "wrist"
	case GroupFingertips:
		return "fingertips"
	}
	return fmt.Sprintf("group(%d)", int(g))
}

// ParseGroup accepts a group name ("all", "wrist", "fingertips") or its
// integer selector ("0", "1", "2").
func ParseGroup(s string) (Group, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "all":
		return GroupAll, nil
	case "1", "wrist", "wrist-triangle", "wrist_triangle":
		return GroupWristTriangle, nil
	case "2", "fingertips", "fingertip":
		return GroupFingertips, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGroup, s)
}
