// Package server implements the dnaconvert HTTP API.
//
// Routes:
//
//	GET  /api/formats         registry listing
//	GET  /api/version         build information
//	POST /api/convert         JSON: convert pasted content
//	POST /api/convert/upload  multipart: convert uploaded files into a zip
//
// Conversions run one at a time; concurrent requests wait for the running
// conversion to finish.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dnaconvert/dnaconvert/pkg/config"
	"github.com/dnaconvert/dnaconvert/pkg/convert"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server serves conversions over HTTP.
type Server struct {
	runner    *convert.Runner
	logger    *log.Logger
	defaults  convert.Options
	maxUpload int64

	// mu serializes conversions.
	mu sync.Mutex
}

// New creates a server using the conversion defaults and limits of cfg.
// If logger is nil, log.Default() is used.
func New(cfg *config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &Server{
		runner: convert.NewRunner(logger),
		logger: logger,
		defaults: convert.Options{
			AllowEmptySequences:      cfg.AllowEmptySequences,
			DisableAutomaticRenaming: cfg.DisableAutomaticRenaming,
			Logger:                   logger,
		},
		maxUpload: int64(cfg.Server.MaxUploadMB) << 20,
	}
}

// Handler returns the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/formats", s.handleFormats)
		r.Get("/version", s.handleVersion)
		r.Post("/convert", s.handleConvert)
		r.Post("/convert/upload", s.handleUpload)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
