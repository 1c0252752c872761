package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/handjoints/internal/capture"
	"github.com/ayusman/handjoints/internal/config"
	"github.com/ayusman/handjoints/internal/detector"
	"github.com/ayusman/handjoints/internal/logger"
	"github.com/ayusman/handjoints/internal/server"
	"github.com/ayusman/handjoints/internal/store"
	"github.com/ayusman/handjoints/internal/tracker"
	"github.com/ayusman/handjoints/internal/tray"
)

type serveFlags struct {
	addr     string
	group    string
	cameraID int
	dbPath   string
	noTray   bool
	idle     bool
	mock     bool
}

func newServeCommand(global *globalFlags) *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the tracker and the HTTP API",
		Long: `Open the camera, run the pose estimator on every frame and serve the
latest joint sets over HTTP and WebSocket. On macOS a status bar menu toggles
tracking unless --no-tray is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, global, flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "HTTP listen address (overrides HANDJOINTS_SERVER_ADDR)")
	cmd.Flags().StringVar(&flags.group, "group", "", "Primary joint group: all, wrist or fingertips")
	cmd.Flags().IntVar(&flags.cameraID, "camera", -1, "Camera device index")
	cmd.Flags().StringVar(&flags.dbPath, "db", "", "SQLite database path")
	cmd.Flags().BoolVar(&flags.noTray, "no-tray", false, "Do not show the status bar menu")
	cmd.Flags().BoolVar(&flags.idle, "idle", false, "Do not start tracking until asked")
	cmd.Flags().BoolVar(&flags.mock, "mock-detector", false, "Use the open palm mock instead of the estimator")
	return cmd
}

// apply overlays explicitly set flags on the loaded configuration.
func (f *serveFlags) apply(cfg *config.Config) error {
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.group != "" {
		cfg.Tracker.Group = f.group
	}
	if f.cameraID >= 0 {
		cfg.Tracker.CameraID = f.cameraID
	}
	if f.dbPath != "" {
		cfg.Store.Path = f.dbPath
	}
	return config.Validate(cfg)
}

func runServe(cmd *cobra.Command, global *globalFlags, flags *serveFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := flags.apply(cfg); err != nil {
		return err
	}

	log := global.newLogger(cmd, cfg.Log.Level, cfg.Log.JSON)

	dbPath, err := resolveDBPath(cfg.Store.Path)
	if err != nil {
		return err
	}
	st, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	group, err := cfg.Tracker.JointGroup()
	if err != nil {
		return err
	}
	defaults := store.TrackerSettings{Group: group, Options: cfg.Tracker.Options()}
	settings, err := st.Settings().LoadTrackerSettings(defaults)
	if err != nil {
		log.Warn("ignoring stored tracker settings", "err", err)
		settings = defaults
	}

	tr := tracker.New(tracker.Config{
		Camera: capture.NewCamera(capture.Config{
			DeviceID: cfg.Tracker.CameraID,
			Width:    capture.DefaultWidth,
			Height:   capture.DefaultHeight,
			FPS:      cfg.Tracker.FPS,
		}),
		Detector:               newDetector(cfg.Tracker, flags.mock, log),
		Group:                  settings.Group,
		Options:                settings.Options,
		FPS:                    cfg.Tracker.FPS,
		MaxConsecutiveFailures: cfg.Tracker.MaxConsecutiveFailures,
		Store:                  st,
		Logger:                 log,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		StaticDir: cfg.Server.StaticDir,
		Store:     st,
		Tracker:   tr,
		Defaults:  defaults,
		Context:   ctx,
		Logger:    log,
	})

	if !flags.idle {
		if _, err := tr.Start(ctx); err != nil {
			return fmt.Errorf("start tracking: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, cfg.Server.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		tr.Stop()
		return nil
	})

	if flags.noTray || runtime.GOOS != "darwin" {
		return wait(g)
	}

	// systray owns the main thread; the rest runs in the group.
	t := tray.New(tr.Running())
	t.OnToggle(func(enabled bool) bool {
		if !enabled {
			tr.Stop()
			return false
		}
		if _, err := tr.Start(ctx); err != nil && !errors.Is(err, tracker.ErrSessionRunning) {
			log.Error("failed to start tracking", "err", err)
			return false
		}
		return true
	})
	t.HandStatus(func() bool { return tr.Status().HandDetected })
	t.TrackingStatus(tr.Running)
	t.OnSettings(func() {
		url := settingsURL(cfg.Server.Addr)
		if err := exec.Command("open", url).Start(); err != nil {
			log.Warn("failed to open settings", "url", url, "err", err)
		}
	})
	t.OnQuit(stop)
	go func() {
		<-gctx.Done()
		t.Quit()
	}()
	t.Run()

	stop()
	return wait(g)
}

func wait(g *errgroup.Group) error {
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newDetector prefers the MediaPipe estimator and falls back to the mock.
func newDetector(cfg config.TrackerConfig, mock bool, log logger.Logger) detector.Detector {
	if !mock {
		dcfg := detector.DefaultConfig()
		dcfg.ScriptPath = cfg.ScriptPath
		if cfg.EstimatorIdleTimeout > 0 {
			dcfg.IdleTimeout = cfg.EstimatorIdleTimeout
		}
		mp, err := detector.NewMediaPipeDetector(dcfg, log)
		if err == nil {
			log.Info("using MediaPipe hand pose estimator")
			return mp
		}
		log.Warn("MediaPipe not available, using mock detector", "err", err)
	}

	d := detector.NewMockDetector()
	d.SetFrame(detector.OpenPalmFrame())
	return d
}

// settingsURL points a browser at the settings endpoint of a listen address
// such as ":8080".
func settingsURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://localhost:8080/api/settings"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/api/settings"
}

// resolveDBPath places relative database paths under ~/.handjoints.
func resolveDBPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	dir := filepath.Join(homeDir, ".handjoints")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return filepath.Join(dir, path), nil
}
