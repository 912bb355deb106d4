// Package server exposes gallery sessions over HTTP for a thin browser
// front-end. The browser reports its scroll offset; the server answers with
// the frame to draw.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/photowall/pkg/gallery"
	"github.com/matzehuels/photowall/pkg/session"
)

// SourceFactory builds the photo source for a session's query.
type SourceFactory func(query string) gallery.Source

// Options configures a Server.
type Options struct {
	Addr        string
	SessionTTL  time.Duration
	MaxSessions int

	// JanitorInterval is how often idle sessions are collected; defaults to
	// a quarter of SessionTTL.
	JanitorInterval time.Duration

	Sources        SourceFactory
	GalleryOptions []gallery.Option
	Logger         *log.Logger
}

// Server owns the session store and the HTTP router.
type Server struct {
	opts   Options
	log    *log.Logger
	store  *session.Store
	router chi.Router

	// base is the parent context of every mounted gallery.
	base context.Context
}

// New creates a server. Galleries mounted by the server run under ctx.
func New(ctx context.Context, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = session.DefaultTTL
	}
	if opts.JanitorInterval <= 0 {
		opts.JanitorInterval = max(opts.SessionTTL/4, time.Second)
	}
	s := &Server{
		opts:  opts,
		log:   opts.Logger,
		store: session.NewStore(opts.MaxSessions),
		base:  ctx,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/frame", s.handleFrame)
			r.Get("/frame.svg", s.handleFrameSVG)
			r.Post("/retry", s.handleRetry)
			r.Post("/relayout", s.handleRelayout)
		})
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the number of live sessions.
func (s *Server) Sessions() int { return s.store.Len() }

// Run serves on opts.Addr until ctx is cancelled, then shuts down
// gracefully and unmounts every session.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.janitor(ctx)

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.opts.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.store.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.store.Close()
	s.log.Info("server stopped")
	return err
}

// janitor unmounts idle sessions.
func (s *Server) janitor(ctx context.Context) {
	t := time.NewTicker(s.opts.JanitorInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.store.Cleanup(); n > 0 {
				s.log.Info("expired sessions", "count", n, "live", s.store.Len())
			}
		}
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
