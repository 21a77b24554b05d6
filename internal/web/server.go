// Package web serves the popular list and movie details as a read-only JSON API.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"

	"github.com/vadimtrunov/marquee/internal/format"
	"github.com/vadimtrunov/marquee/internal/nav"
	"github.com/vadimtrunov/marquee/internal/tmdb"
)

// shutdownTimeout bounds how long in-flight requests may run after cancellation.
const shutdownTimeout = 5 * time.Second

// Catalog is the subset of the TMDb client the server needs.
type Catalog interface {
	PopularMovies(ctx context.Context, page int) (*tmdb.MoviesPage, error)
	MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error)
}

// Server wraps an HTTP server exposing the list and detail routes.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	mu         sync.RWMutex
	ready      chan struct{}
	started    atomic.Bool
	logger     *slog.Logger
}

// NewServer creates a server listening on addr.
func NewServer(addr string, catalog Catalog, f *format.Formatter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewHandler(catalog, f, logger),
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		ready:  make(chan struct{}),
		logger: logger,
	}
}

// NewHandler builds the request handler. The movie routes follow the nav
// route table.
func NewHandler(catalog Catalog, f *format.Formatter, logger *slog.Logger) http.Handler {
	if catalog == nil {
		panic("web.NewHandler: catalog must not be nil")
	}
	if f == nil {
		f = format.New("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	h := &handlers{catalog: catalog, format: f}

	r := httprouter.New()
	r.NotFound = http.HandlerFunc(h.notFound)
	r.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	r.GET(nav.PathList, h.popular)
	r.GET(nav.PathDetail, h.movie)
	r.GET("/health", h.health)
	return withLogging(r, logger)
}

// Ready returns a channel that is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the listener address once the server has started.
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// ErrAlreadyStarted is returned by Start on a server that is already serving.
var ErrAlreadyStarted = errors.New("web: server already started")

// Start binds the listen address and serves the movie routes until ctx is
// cancelled. In-flight requests then get shutdownTimeout to finish. A failure
// to bind leaves the server startable again.
func (s *Server) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		s.started.Store(false)
		return fmt.Errorf("web: bind %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	close(s.ready)

	addr := ln.Addr().String()
	s.logger.Info("serving movie API", slog.String("addr", addr))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web: serve %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(drainCtx); err != nil {
			s.logger.Warn("movie API drain incomplete", slog.String("error", err.Error()))
			return fmt.Errorf("web: drain %s: %w", addr, err)
		}
		s.logger.Info("movie API stopped", slog.String("addr", addr))
		return nil
	})
	return g.Wait()
}
