// Package api serves projects over HTTP.
//
// Every request loads its project from the store, applies one editor
// operation and saves the project back, history included, so the server
// keeps no editing state between requests. A single mutex serializes
// requests because [editor.Editor] is not safe for concurrent use and two
// edits of the same project must not interleave their load and save.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/v1/projects
//	POST   /api/v1/projects
//	GET    /api/v1/projects/{project}
//	DELETE /api/v1/projects/{project}
//	POST   /api/v1/projects/{project}/ops
//	GET    /api/v1/projects/{project}/flow
//	GET    /api/v1/projects/{project}/screens/{screen}/history
//	POST   /api/v1/projects/{project}/screens/{screen}/undo
//	POST   /api/v1/projects/{project}/screens/{screen}/redo
//	POST   /api/v1/projects/{project}/screens/{screen}/jump
//	GET    /api/v1/projects/{project}/screens/{screen}/export
//
// Errors are JSON objects {"error": message, "code": code} with the status
// chosen by [mkerrors.HTTPStatus].
package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mockup/pkg/buildinfo"
	"github.com/matzehuels/mockup/pkg/cache"
	"github.com/matzehuels/mockup/pkg/catalog"
	"github.com/matzehuels/mockup/pkg/export"
	"github.com/matzehuels/mockup/pkg/history"
	"github.com/matzehuels/mockup/pkg/scene"
	"github.com/matzehuels/mockup/pkg/store"
)

// Server is the HTTP front end of a project store.
type Server struct {
	store        store.Store
	catalog      *catalog.Catalog
	artifacts    cache.Cache
	artifactTTL  time.Duration
	historyLimit int
	grid         scene.Grid
	newID        func() string
	logger       *log.Logger

	mu     sync.Mutex
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for requests and editor activity.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog sets the component library used by drop operations.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Server) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithCache caches rendered diagrams.
func WithCache(c cache.Cache) Option {
	return func(s *Server) {
		s.artifacts = c
	}
}

// WithArtifactTTL sets how long rendered diagrams stay cached. Zero keeps
// them until the cache is cleared.
func WithArtifactTTL(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.artifactTTL = d
		}
	}
}

// WithHistoryLimit caps each screen's undo and redo stacks.
func WithHistoryLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithGrid sets the document grid of projects created through the API.
func WithGrid(g scene.Grid) Option {
	return func(s *Server) { s.grid = g }
}

// WithIDs sets the id generator handed to each editor. Tests use it for
// stable element ids.
func WithIDs(f func() string) Option {
	return func(s *Server) { s.newID = f }
}

// New creates a server over st. The caller keeps ownership of st.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{
		store:        st,
		catalog:      catalog.Default(),
		historyLimit: history.DefaultCapacity,
		grid:         scene.Grid{Size: 8, Enabled: true},
		logger:       log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// exporter renders diagrams of one project. Keys are scoped by project so
// projects sharing a cache never read each other's artifacts.
func (s *Server) exporter(projectID string) *export.Exporter {
	return export.New(s.artifacts,
		export.WithKeyer(cache.NewScopedKeyer(nil, "project:"+projectID+":")),
		export.WithTTL(s.artifactTTL),
		export.WithLogger(s.logger),
	)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(serverHeader)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
	})

	r.Route("/api/v1/projects", func(r chi.Router) {
		r.Get("/", s.handleListProjects)
		r.Post("/", s.handleCreateProject)
		r.Route("/{project}", func(r chi.Router) {
			r.Get("/", s.handleGetProject)
			r.Delete("/", s.handleDeleteProject)
			r.Post("/ops", s.handleOp)
			r.Get("/flow", s.handleFlow)
			r.Route("/screens/{screen}", func(r chi.Router) {
				r.Get("/history", s.handleHistory)
				r.Post("/undo", s.handleUndo)
				r.Post("/redo", s.handleRedo)
				r.Post("/jump", s.handleJump)
				r.Get("/export", s.handleExport)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// requestLogger logs one line per request at debug level, and at warn for
// server errors.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Warn("request failed", fields...)
			return
		}
		s.logger.Debug("request", fields...)
	})
}

func serverHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", buildinfo.UserAgent())
		next.ServeHTTP(w, r)
	})
}
