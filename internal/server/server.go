// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: New picks the document store once, builds the
// service and handler on top of it, and mounts the routes. main.go only reads
// configuration and calls Start.
//
//	Config → jsonfile.Store (or DemoStore) → SyncService → SyncHandler → chi routes
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/navidash/internal/handler"
	"github.com/sakif/navidash/internal/middleware"
	"github.com/sakif/navidash/internal/model"
	"github.com/sakif/navidash/internal/repository"
	"github.com/sakif/navidash/internal/repository/jsonfile"
	"github.com/sakif/navidash/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port      int
	DataDir   string // directory holding bookmarks.json, widgets.json, settings.json
	StaticDir string // optional; served at /static/* when set
	DemoMode  bool

	// SeedBookmarks is served while bookmarks.json does not exist, and
	// always in demo mode.
	SeedBookmarks []model.Bookmark
}

// ShutdownTimeout bounds how long Run waits for in-flight requests.
const ShutdownTimeout = 15 * time.Second

// Server is the sync API plus optional static files.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
}

// New creates a new Server with the given config.
//
// DEMO MODE:
// The flag is evaluated exactly once, here. It selects the DemoStore wrapper
// (bookmarks pinned to the seed, writes dropped) and tells the service to
// refuse widget writes.
func New(cfg Config, logger *slog.Logger) *Server {
	files := jsonfile.New(cfg.DataDir, cfg.SeedBookmarks, logger)

	var docs repository.DocumentStore = files
	if cfg.DemoMode {
		docs = jsonfile.NewDemo(files)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}
	s.setupRoutes(service.NewSyncService(docs, cfg.DemoMode, logger))
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET  /api/bookmarks → bookmark tree
// POST /api/bookmarks → replace bookmark tree
// GET  /api/widgets   → widget list
// POST /api/widgets   → replace widget list (403 in demo mode)
// GET  /api/settings  → settings record (never cached)
// POST /api/settings  → replace settings record
// GET  /static/*      → static files, when StaticDir is set
//
// MIDDLEWARE ORDER MATTERS:
// RequestID first so the logger can report it; Recoverer last so a panic in
// a handler is still logged as a 500.
func (s *Server) setupRoutes(svc *service.SyncService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	if s.config.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(s.config.StaticDir))
		s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	syncHandler := handler.NewSyncHandler(svc, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/bookmarks", syncHandler.HandleGet(model.DocBookmarks))
		r.Post("/bookmarks", syncHandler.HandleSave(model.DocBookmarks))

		r.Get("/widgets", syncHandler.HandleGet(model.DocWidgets))
		r.Post("/widgets", syncHandler.HandleSave(model.DocWidgets))

		r.With(middleware.NoCache).Get("/settings", syncHandler.HandleGet(model.DocSettings))
		r.Post("/settings", syncHandler.HandleSave(model.DocSettings))
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully: stop
// accepting connections and give in-flight requests ShutdownTimeout to
// finish. A write that is mid-rename completes, so no document file is left
// half written.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- srv.ListenAndServe()
	}()
	s.logger.Info("listening",
		slog.String("addr", srv.Addr),
		slog.String("data_dir", s.config.DataDir),
		slog.Bool("demo_mode", s.config.DemoMode),
	)

	select {
	case err := <-listenErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", slog.String("cause", context.Cause(ctx).Error()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("stopped")
	return nil
}
