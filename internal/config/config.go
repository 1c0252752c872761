// Package config loads service configuration from defaults and the
// environment.
package config

import (
	"time"

	"github.com/ayusman/handjoints/internal/joints"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "HANDJOINTS_"

// Config is the complete service configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"  validate:"required"`
	Tracker TrackerConfig `koanf:"tracker" validate:"required"`
	Store   StoreConfig   `koanf:"store"   validate:"required"`
	Log     LogConfig     `koanf:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr      string `koanf:"addr"       validate:"required"`
	StaticDir string `koanf:"static_dir"`
}

// TrackerConfig configures capture, detection and normalization.
type TrackerConfig struct {
	CameraID               int           `koanf:"camera_id"                validate:"gte=0"`
	FPS                    int           `koanf:"fps"                      validate:"gte=1,lte=240"`
	Group                  string        `koanf:"group"                    validate:"oneof=0 1 2 all wrist fingertips"`
	ConfidenceCutoff       float64       `koanf:"confidence_cutoff"        validate:"gte=0,lte=1"`
	Precision              int           `koanf:"precision"                validate:"gte=0,lte=9"`
	MaxConsecutiveFailures int           `koanf:"max_consecutive_failures" validate:"gte=0"`
	ScriptPath             string        `koanf:"script_path"`
	EstimatorIdleTimeout   time.Duration `koanf:"estimator_idle_timeout"`
}

// StoreConfig configures persistence.
type StoreConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error disabled"`
	JSON  bool   `koanf:"json"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Tracker: TrackerConfig{
			CameraID:               0,
			FPS:                    30,
			Group:                  joints.GroupWristTriangle.String(),
			ConfidenceCutoff:       joints.DefaultConfidenceCutoff,
			Precision:              joints.DefaultPrecision,
			MaxConsecutiveFailures: 0,
			EstimatorIdleTimeout:   30 * time.Second,
		},
		Store: StoreConfig{
			Path: "handjoints.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// JointGroup resolves the configured group selector.
func (t TrackerConfig) JointGroup() (joints.Group, error) {
	return joints.ParseGroup(t.Group)
}

// Options returns the normalizer options.
func (t TrackerConfig) Options() joints.Options {
	return joints.Options{
		ConfidenceCutoff: t.ConfidenceCutoff,
		Precision:        t.Precision,
	}
}
