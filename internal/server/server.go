// Package server provides the optional HTTP observer surface of hastaview:
// health, the current view state, rendered snapshots, an MJPEG stream, a
// websocket landmark feed, session history and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"net"
	"net/http"
	"time"

	"github.com/ayusman/hastaview/internal/app"
	"github.com/ayusman/hastaview/internal/logger"
	"github.com/ayusman/hastaview/internal/metrics"
	"github.com/ayusman/hastaview/internal/render"
	"github.com/ayusman/hastaview/internal/server/api"
	"github.com/ayusman/hastaview/internal/store"
)

// Defaults for zero Config fields.
const (
	DefaultJPEGQuality = 75
	DefaultStreamFPS   = 15
	shutdownTimeout    = 5 * time.Second
)

// Viewer is the read side of the frame loop.
type Viewer interface {
	Snapshot() app.Snapshot
	Subscribe() (<-chan app.Snapshot, func())
	Picture() image.Image
}

// Config holds the server configuration. Nil collaborators disable their
// routes.
type Config struct {
	Viewer  Viewer
	Store   *store.Store
	Metrics *metrics.Metrics
	Logger  logger.Logger

	// Interpolation names the software warp kernel.
	Interpolation string
	JPEGQuality   int
	StreamFPS     int
}

// Server is the HTTP handler tree.
type Server struct {
	config   Config
	mux      *http.ServeMux
	renderer *render.Software
	log      logger.Logger
	start    time.Time
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	if config.JPEGQuality <= 0 || config.JPEGQuality > 100 {
		config.JPEGQuality = DefaultJPEGQuality
	}
	if config.StreamFPS <= 0 {
		config.StreamFPS = DefaultStreamFPS
	}

	s := &Server{
		config:   config,
		mux:      http.NewServeMux(),
		renderer: render.NewSoftware(config.Interpolation),
		log:      config.Logger,
		start:    time.Now(),
	}
	if s.log == nil {
		s.log = logger.Named("server")
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Viewer != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
		s.mux.HandleFunc("/api/view.png", s.handleViewPNG)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Viewer, s.renderer, s.config.JPEGQuality, s.config.StreamFPS))
		s.mux.Handle("/api/landmarks", NewLandmarksHandler(s.config.Viewer, s.log))
	}

	if s.config.Store != nil {
		sessions := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessions)
		s.mux.Handle("/api/sessions/", sessions)
	}

	if s.config.Metrics != nil {
		s.mux.Handle("/metrics", s.config.Metrics.Handler())
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

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "http server listening", logger.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info(ctx, "http server stopped")
	return nil
}
