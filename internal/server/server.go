// Package server exposes introspection over HTTP. Every request runs a fresh
// introspection; nothing is cached between requests.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/koustreak/relgraph/internal/detect"
	"github.com/koustreak/relgraph/internal/logger"
)

// IntrospectFunc produces a complete model or an error.
type IntrospectFunc func(ctx context.Context) ([]detect.TableDef, error)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tunes the HTTP server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// QueryTimeout bounds one introspection. Zero means the request context only.
	QueryTimeout time.Duration
}

// Server serves the model over HTTP.
type Server struct {
	introspect IntrospectFunc
	db         Pinger
	log        *logger.Logger
	opts       Options
	router     chi.Router
}

// New wires the routes. db may be nil, in which case /healthz always succeeds.
func New(introspect IntrospectFunc, db Pinger, log *logger.Logger, opts Options) *Server {
	s := &Server{
		introspect: introspect,
		db:         db,
		log:        log,
		opts:       opts,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/tables", func(r chi.Router) {
		r.Get("/", s.handleTables)
		r.Get("/{schema}/{table}", s.handleTable)
	})

	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.opts.Addr)
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

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// accessLog writes one line per request through the structured logger.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		ctx := s.log.With().
			Str("request_id", middleware.GetReqID(r.Context())).
			Logger().
			WithContext(r.Context())

		next.ServeHTTP(ww, r.WithContext(ctx))

		s.log.HTTPEvent(ww.Status()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
