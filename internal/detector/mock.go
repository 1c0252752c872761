package detector

import (
	"sync"

	"github.com/ayusman/handjoints/internal/joints"
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu     sync.Mutex
	frame  joints.HandFrame
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFrame sets the hand that will be returned by Detect.
func (m *MockDetector) SetFrame(frame joints.HandFrame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frame = frame
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hand or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (joints.HandFrame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.frame, nil
}

// Calls returns how many times Detect was invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// OpenPalmFrame returns a right hand, palm facing the camera, fingers spread,
// every joint detected with high confidence. Coordinates use the lower-left
// origin.
func OpenPalmFrame() joints.HandFrame {
	return uniformFrame(openPalm, 0.95)
}

// LowConfidenceFrame returns the open palm with every joint at confidence 0.2.
func LowConfidenceFrame() joints.HandFrame {
	return uniformFrame(openPalm, 0.2)
}

// PartialFrame returns the open palm with the little finger occluded.
func PartialFrame() joints.HandFrame {
	frame := OpenPalmFrame()
	for _, name := range []joints.JointName{
		joints.LittleMCP, joints.LittlePIP, joints.LittleDIP, joints.LittleTip,
	} {
		delete(frame, name)
	}
	return frame
}

func uniformFrame(points map[joints.JointName]joints.Point, confidence float64) joints.HandFrame {
	frame := make(joints.HandFrame, len(points))
	for name, p := range points {
		frame[name] = joints.Joint{Position: p, Confidence: confidence}
	}
	return frame
}

var openPalm = map[joints.JointName]joints.Point{
	joints.Wrist: {X: 0.5, Y: 0.2},

	joints.ThumbCMC: {X: 0.55, Y: 0.25},
	joints.ThumbMP:  {X: 0.62, Y: 0.30},
	joints.ThumbIP:  {X: 0.68, Y: 0.35},
	joints.ThumbTip: {X: 0.73, Y: 0.40},

	joints.IndexMCP: {X: 0.55, Y: 0.32},
	joints.IndexPIP: {X: 0.57, Y: 0.45},
	joints.IndexDIP: {X: 0.58, Y: 0.55},
	joints.IndexTip: {X: 0.58, Y: 0.65},

	joints.MiddleMCP: {X: 0.50, Y: 0.34},
	joints.MiddlePIP: {X: 0.50, Y: 0.48},
	joints.MiddleDIP: {X: 0.50, Y: 0.60},
	joints.MiddleTip: {X: 0.50, Y: 0.72},

	joints.RingMCP: {X: 0.45, Y: 0.32},
	joints.RingPIP: {X: 0.43, Y: 0.45},
	joints.RingDIP: {X: 0.42, Y: 0.55},
	joints.RingTip: {X: 0.42, Y: 0.65},

	joints.LittleMCP: {X: 0.40, Y: 0.30},
	joints.LittlePIP: {X: 0.37, Y: 0.40},
	joints.LittleDIP: {X: 0.35, Y: 0.50},
	joints.LittleTip: {X: 0.34, Y: 0.58},
}
