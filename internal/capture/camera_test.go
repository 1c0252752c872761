package capture

import (
	"errors"
	"testing"
)

func TestNewCamera_Defaults(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantFPS int
	}{
		{name: "zero config", cfg: Config{}, wantFPS: DefaultFPS},
		{name: "explicit fps", cfg: Config{DeviceID: 1, FPS: 60}, wantFPS: 60},
		{name: "negative fps", cfg: Config{FPS: -1}, wantFPS: DefaultFPS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.cfg)

			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
			if cam.IsOpen() {
				t.Error("camera should not be open initially")
			}
		})
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	steps := []struct {
		fps  int
		want int
	}{
		{fps: 10, want: 10},
		{fps: 0, want: 10},
		{fps: -5, want: 10},
		{fps: 24, want: 24},
	}

	for _, s := range steps {
		cam.SetFPS(s.fps)
		if got := cam.FPS(); got != s.want {
			t.Errorf("SetFPS(%d): FPS() = %d, want %d", s.fps, got, s.want)
		}
	}
}

func TestCamera_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	t.Run("ReadFrame fails", func(t *testing.T) {
		if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
			t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
		}
	})

	t.Run("Close is a no-op", func(t *testing.T) {
		if err := cam.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(DefaultConfig())

	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}
	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Skipf("skipping test - camera delivered no frame: %v", err)
	}
	if mat.Empty() {
		t.Error("ReadFrame() returned empty mat")
	}
	mat.Close()

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}
