package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/modules"
)

// Server exposes sessions over HTTP: trees are posted to
// /sessions/{id}/render and the resulting operations are pushed to every
// websocket subscribed at /sessions/{id}/ws.
type Server struct {
	config   *Config
	sessions *SessionManager
	router   chi.Router
	upgrader websocket.Upgrader

	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a Server. It fails with E102 when config names an unknown
// module.
func New(config *Config) (*Server, error) {
	config = config.withDefaults()

	if _, err := modules.New(config.Modules, dom.NewDocument()); err != nil {
		return nil, err
	}

	s := &Server{
		config:   config,
		sessions: NewSessionManager(config),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		logger: config.Logger.With("component", "server"),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	if s.config.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Post("/render", s.handleRender)
			r.Get("/html", s.handleHTML)
			r.Get("/ws", s.handleWebSocket)
			r.Delete("/", s.handleDelete)
		})
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func(start time.Time) {
			s.logger.LogAttrs(r.Context(), slog.LevelDebug, "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the live session table.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Run listens on the configured address until ctx is done or the process
// gets SIGINT or SIGTERM, then shuts down within ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	served := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", s.config.Address)
		served <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-served:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "sessions", s.sessions.Count())
	return s.Shutdown(context.WithoutCancel(ctx))
}

// Shutdown closes every session, which sends each subscriber a closed
// frame, and then stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.sessions.Shutdown(ctx)
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("shutdown", "error", err)
		return err
	}
	return nil
}
