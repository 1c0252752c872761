// Package detector wraps external hand pose estimators behind a single-hand
// detection interface.
package detector

import (
	"time"

	"github.com/ayusman/handjoints/internal/joints"
	"gocv.io/x/gocv"
)

// Detector defines the interface for hand pose estimators.
type Detector interface {
	// Detect analyzes a video frame and returns the joints of at most one hand.
	// Returns an empty HandFrame if no hand is detected.
	Detect(frame *gocv.Mat) (joints.HandFrame, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// ScriptPath overrides the lookup of the estimator service script.
	ScriptPath string

	// PythonPath overrides the interpreter used to run the script.
	PythonPath string

	// IdleTimeout stops the estimator process after this long without frames.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		IdleTimeout: 30 * time.Second,
	}
}
