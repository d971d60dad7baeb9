// Package server exposes bingo sessions over HTTP and websockets. Every
// websocket connection owns an independent Session; nothing is shared
// between players.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/lox/bingoblitz/internal/commentary"
	"github.com/lox/bingoblitz/internal/game"
)

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock handed to every session.
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithProvider sets the commentary provider. Nil means the local tables.
func WithProvider(p commentary.Provider) Option {
	return func(s *Server) { s.provider = p }
}

// WithCommentaryTimeout bounds each provider request.
func WithCommentaryTimeout(d time.Duration) Option {
	return func(s *Server) { s.commentaryTimeout = d }
}

// WithSessionOptions appends options applied to every new session.
func WithSessionOptions(opts ...game.Option) Option {
	return func(s *Server) { s.sessionOpts = append(s.sessionOpts, opts...) }
}

// Server serves the card API and the websocket play endpoint.
type Server struct {
	upgrader          websocket.Upgrader
	router            chi.Router
	logger            *log.Logger
	clock             quartz.Clock
	provider          commentary.Provider
	commentaryTimeout time.Duration
	sessionOpts       []game.Option

	mu          sync.Mutex
	connections map[*Connection]bool
	httpServer  *http.Server
}

// NewServer creates a server with its routes mounted.
func NewServer(logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			// Browser clients are served from arbitrary local origins.
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:            logger.WithPrefix("server"),
		clock:             quartz.NewReal(),
		commentaryTimeout: commentary.DefaultTimeout,
		connections:       make(map[*Connection]bool),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	s.addRoutes(r)
	s.router = r

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", "addr", ln.Addr().String())
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.Stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// Stop closes every open websocket connection.
func (s *Server) Stop() {
	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close() // Ignore close errors during shutdown
	}
}

// ConnectionCount returns the number of live websocket connections.
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections)
}

func (s *Server) newSession(player string) *game.Session {
	announcer := commentary.NewAnnouncer(s.provider, s.clock, s.commentaryTimeout, s.logger)
	opts := append([]game.Option{
		game.WithClock(s.clock),
		game.WithAnnouncer(announcer),
	}, s.sessionOpts...)
	return game.NewSession(player, s.logger, opts...)
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client disconnected", "total", total)
}

func requestLogger(logger *log.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Debug("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
