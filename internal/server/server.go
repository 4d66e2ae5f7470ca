// Package server exposes a ranking session over HTTP for a web front end.
//
// One session is active at a time. Routes:
//
//	POST /sessions               start ranking {"items": [...], "strategy": "merge"}
//	GET  /session                current snapshot
//	POST /session/resolve        answer the active comparison {"choice": "left"}
//	POST /session/import         merge decision text {"text": "...", "clean": true}
//	GET  /session/export         decision history as text, or ?format=json
//	GET  /session/graph.dot      preference graph, ?reduce=false for every edge
//	GET  /session/graph.svg      the same graph rendered by Graphviz
//	GET  /healthz                liveness
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/songsort/pkg/cache"
	"github.com/matzehuels/songsort/pkg/observability"
	"github.com/matzehuels/songsort/pkg/session"
)

// Options configures a Server.
type Options struct {
	Logger *log.Logger
	// Strategy is used when a start request names none.
	Strategy string
	// CleanImports is the default for import requests that omit "clean".
	CleanImports bool
	// Cache holds rendered SVG graphs. Defaults to a small in-memory cache.
	Cache cache.Cache
}

// Server serves the ranking API.
type Server struct {
	sessions *session.Manager
	opts     Options
	logger   *log.Logger
	router   chi.Router
}

// New creates a server backed by sessions.
func New(sessions *session.Manager, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewMemoryCache(32)
	}
	s := &Server{
		sessions: sessions,
		opts:     opts,
		logger:   opts.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/sessions", s.handleStart)
	r.Route("/session", func(r chi.Router) {
		r.Get("/", s.handleSnapshot)
		r.Post("/resolve", s.handleResolve)
		r.Post("/import", s.handleImport)
		r.Get("/export", s.handleExport)
		r.Get("/graph.dot", s.handleGraphDOT)
		r.Get("/graph.svg", s.handleGraphSVG)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("http", "method", r.Method, "path", r.URL.Path, "status", status,
			"duration", elapsed.Round(time.Microsecond), "request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
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
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
