// Package app wires the replication server: storage, handlers, middleware and the HTTP listener.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/docsync/internal/server/handlers"
	"github.com/iudanet/docsync/internal/server/jwt"
	"github.com/iudanet/docsync/internal/server/middleware"
	"github.com/iudanet/docsync/internal/server/storage"
	"github.com/iudanet/docsync/internal/server/storage/sqlite"
)

const healthPath = "/api/v1/health"

// Config describes the server
type Config struct {
	Addr            string        `mapstructure:"addr"`
	DBPath          string        `mapstructure:"db"`
	JWTSecret       string        `mapstructure:"jwt_secret"`
	Version         string        `mapstructure:"-"`
	RateLimit       int           `mapstructure:"rate"`
	RateWindow      time.Duration `mapstructure:"rate_window"`
	MaxLongPoll     time.Duration `mapstructure:"max_longpoll"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		DBPath:          "docsync.db",
		Version:         "dev",
		RateLimit:       600,
		RateWindow:      time.Minute,
		MaxLongPoll:     time.Minute,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server is a configured replication server
type Server struct {
	logger  *slog.Logger
	storage *sqlite.Storage
	limiter *middleware.RateLimiter
	http    *http.Server
	cfg     Config
}

// New opens the database and builds the HTTP server
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	s := &Server{
		logger:  logger,
		storage: db,
		cfg:     cfg,
	}
	if cfg.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, logger)
	}

	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(db),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Routes builds the HTTP handler tree over db
func (s *Server) Routes(db storage.DocumentStorage) http.Handler {
	replication := handlers.NewReplicationHandler(s.logger, db, handlers.NewNotifier(), s.cfg.MaxLongPoll)
	health := handlers.NewHealthHandler(s.logger, db, s.cfg.Version)

	var protect []func(http.Handler) http.Handler
	if s.cfg.JWTSecret != "" {
		protect = append(protect, middleware.AuthMiddleware(s.logger, jwt.NewService(s.cfg.JWTSecret, 0)))
	} else {
		s.logger.Warn("JWT secret is not set, replication endpoints are open")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+healthPath, health.Health)
	mux.Handle("GET /api/v1/db", middleware.Chain(http.HandlerFunc(replication.Databases), protect...))
	mux.Handle("GET /api/v1/db/{db}/changes", middleware.Chain(http.HandlerFunc(replication.Changes), protect...))
	mux.Handle("POST /api/v1/db/{db}/bulk_docs", middleware.Chain(http.HandlerFunc(replication.BulkDocs), protect...))

	outer := []func(http.Handler) http.Handler{
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger, healthPath),
	}
	if s.limiter != nil {
		outer = append(outer, s.limiter.Middleware)
	}

	return middleware.Chain(mux, outer...)
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Serve accepts connections on l until ctx is done, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	// Контекст запросов отменяется при остановке, чтобы long-poll не держал Shutdown
	base, cancelBase := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelBase()
	s.http.BaseContext = func(net.Listener) context.Context { return base }

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server started", "addr", l.Addr().String(), "version", s.cfg.Version)
		errCh <- s.http.Serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	cancelBase()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ListenAndServe listens on the configured address and serves until ctx is done
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, l)
}

// Close releases the rate limiter and the database
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.storage.Close()
}
