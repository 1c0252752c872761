// Package server provides the HTTP server for the hand joint tracking service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ayusman/handjoints/internal/logger"
	"github.com/ayusman/handjoints/internal/server/api"
	"github.com/ayusman/handjoints/internal/store"
	"github.com/ayusman/handjoints/internal/tracker"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Tracker   *tracker.Tracker

	// Defaults are the tracker settings reported before any are saved.
	Defaults store.TrackerSettings

	// Context bounds tracker sessions started over HTTP. Defaults to
	// context.Background.
	Context context.Context

	Logger logger.Logger
}

// Server represents the HTTP server for the service.
type Server struct {
	config Config
	log    logger.Logger
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Context == nil {
		config.Context = context.Background()
	}
	log := config.Logger
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		config: config,
		log:    log.With("component", "server"),
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Tracker != nil {
		s.mux.Handle("/api/joints", api.NewJointsHandler(s.config.Tracker))
		s.mux.Handle("/api/joints/ws", NewJointsFeedHandler(s.config.Tracker, s.log))

		trackerHandler := api.NewTrackerHandler(s.config.Context, s.config.Tracker)
		s.mux.Handle("/api/tracker", trackerHandler)
		s.mux.Handle("/api/tracker/", trackerHandler)

		s.mux.Handle("/metrics", s.config.Tracker.Metrics().Handler())
	}

	if s.config.Store != nil {
		sessionHandler := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessionHandler)
		s.mux.Handle("/api/sessions/", sessionHandler)

		// A nil *tracker.Tracker must not become a non-nil interface.
		var configurer api.Configurer
		if s.config.Tracker != nil {
			configurer = s.config.Tracker
		}
		s.mux.Handle("/api/settings", api.NewSettingsHandler(s.config.Store, configurer, s.config.Defaults))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}
	if s.config.Tracker != nil {
		response["tracking"] = s.config.Tracker.Running()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
