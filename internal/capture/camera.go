// Package capture reads video frames from a capture device using GoCV.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Default capture settings.
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480
)

// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// ErrEmptyFrame is returned when the device delivers no image data.
var ErrEmptyFrame = errors.New("captured frame is empty")

// Camera is a source of video frames.
type Camera interface {
	Open() error
	Close() error
	// ReadFrame returns the next frame. The caller must close it.
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// Config describes a capture device.
type Config struct {
	DeviceID int
	Width    int
	Height   int
	FPS      int
}

// DefaultConfig returns the settings for the first attached camera.
func DefaultConfig() Config {
	return Config{
		DeviceID: 0,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		FPS:      DefaultFPS,
	}
}

type device struct {
	cfg     Config
	mu      sync.Mutex
	capture *gocv.VideoCapture
}

// NewCamera creates a Camera for the configured device. The device is not
// opened until Open is called. Zero values in cfg fall back to defaults.
func NewCamera(cfg Config) Camera {
	def := DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if cfg.FPS <= 0 {
		cfg.FPS = def.FPS
	}
	return &device{cfg: cfg}
}

func (d *device) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture != nil {
		return nil
	}

	vc, err := gocv.OpenVideoCapture(d.cfg.DeviceID)
	if err != nil {
		return fmt.Errorf("open device %d: %w", d.cfg.DeviceID, err)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(d.cfg.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(d.cfg.Height))
	vc.Set(gocv.VideoCaptureFPS, float64(d.cfg.FPS))

	d.capture = vc
	return nil
}

func (d *device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture == nil {
		return nil
	}
	err := d.capture.Close()
	d.capture = nil
	return err
}

func (d *device) ReadFrame() (*gocv.Mat, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := d.capture.Read(&mat); !ok {
		mat.Close()
		return nil, fmt.Errorf("read device %d: %w", d.cfg.DeviceID, ErrEmptyFrame)
	}
	if mat.Empty() {
		mat.Close()
		return nil, ErrEmptyFrame
	}

	return &mat, nil
}

// SetFPS ignores values less than or equal to 0.
func (d *device) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.cfg.FPS = fps
	if d.capture != nil {
		d.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

func (d *device) FPS() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.FPS
}

func (d *device) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.capture != nil
}
