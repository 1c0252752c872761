package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/ayusman/handjoints/internal/joints"
	"github.com/ayusman/handjoints/internal/logger"
	"gocv.io/x/gocv"
)

const serviceScript = "hand_pose_service.py"

// ErrScriptNotFound is returned when the estimator service script is missing.
var ErrScriptNotFound = errors.New(serviceScript + " not found")

// MediaPipeDetector implements Detector using a Python MediaPipe subprocess.
//
// Each request is a 4-byte big-endian length followed by a JPEG frame; each
// response is one JSON line {"hands": [...]}. Only the highest scoring hand
// is kept.
type MediaPipeDetector struct {
	config     Config
	scriptPath string
	log        logger.Logger

	mu        sync.Mutex
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	started   bool
	idleTimer *time.Timer
}

// NewMediaPipeDetector creates a new MediaPipe detector.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config, log logger.Logger) (*MediaPipeDetector, error) {
	scriptPath := config.ScriptPath
	if scriptPath == "" {
		scriptPath = findScript()
	}
	if scriptPath == "" {
		return nil, ErrScriptNotFound
	}
	if _, err := os.Stat(scriptPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScriptNotFound, err)
	}
	if log == nil {
		log = logger.Nop()
	}

	return &MediaPipeDetector{
		config:     config,
		scriptPath: scriptPath,
		log:        log.With("component", "mediapipe"),
	}, nil
}

// Detect sends a frame to the estimator and returns the primary hand.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) (joints.HandFrame, error) {
	if frame == nil || frame.Empty() {
		return nil, errors.New("empty frame")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return nil, d.fail(fmt.Errorf("write length: %w", err))
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, d.fail(fmt.Errorf("write data: %w", err))
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		return nil, d.fail(fmt.Errorf("read response: %w", err))
	}

	hands, err := parseResponse(line)
	if err != nil {
		return nil, err
	}

	d.resetIdleTimer()

	hand, ok := primaryHand(hands)
	if !ok {
		return joints.HandFrame{}, nil
	}
	return hand.HandFrame(), nil
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func parseResponse(line []byte) ([]Hand, error) {
	var response struct {
		Hands []Hand `json:"hands"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if response.Error != "" {
		return nil, fmt.Errorf("estimator: %s", response.Error)
	}
	return response.Hands, nil
}

// fail tears down a broken process so the next frame restarts it.
func (d *MediaPipeDetector) fail(err error) error {
	if shutdownErr := d.shutdown(); shutdownErr != nil {
		d.log.Debug("estimator exited", "err", shutdownErr)
	}
	return err
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	pythonPath := d.config.PythonPath
	if pythonPath == "" {
		pythonPath = findVenvPython()
	}
	if pythonPath == "" {
		pythonPath = "python3"
	}

	// One hand only; Vision-style single hand tracking.
	d.cmd = exec.Command(pythonPath, d.scriptPath, "--max-hands", "1")

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start estimator service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	d.log.Info("estimator started", "python", pythonPath, "script", d.scriptPath)

	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.config.IdleTimeout <= 0 {
		return
	}
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(d.config.IdleTimeout, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if err := d.shutdown(); err != nil {
			d.log.Debug("idle shutdown", "err", err)
		}
	})
}

func findScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		filepath.Join("scripts", serviceScript),
		filepath.Join("..", "scripts", serviceScript),
		filepath.Join(execDir, "scripts", serviceScript),
		filepath.Join(os.Getenv("HOME"), ".handjoints", "scripts", serviceScript),
	}

	return firstExisting(candidates)
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".handjoints/venv/bin/python"),
	}

	return firstExisting(candidates)
}

func firstExisting(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}
