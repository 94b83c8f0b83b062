// Package server exposes the diagnostic and tutoring engines over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/mathbuddy/internal/diagnostic"
	"github.com/abhisek/mathbuddy/internal/logger"
	"github.com/abhisek/mathbuddy/internal/metrics"
	"github.com/abhisek/mathbuddy/internal/tutor"
)

// Config holds the HTTP settings.
type Config struct {
	CORSOrigins       []string
	ReadHeaderTimeout time.Duration
	// WriteTimeout applies to every route except the tutoring stream,
	// which runs for as long as the upstream model keeps talking.
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Debug           bool
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Diagnostic *diagnostic.Engine
	Tutor      *tutor.Engine
	Metrics    *metrics.Metrics
	Logger     *logger.Logger

	// Health reports whether backing stores are reachable. May be nil.
	Health func(ctx context.Context) error
}

// Server serves the HTTP API.
type Server struct {
	cfg        Config
	diagnostic *diagnostic.Engine
	tutor      *tutor.Engine
	metrics    *metrics.Metrics
	log        *logger.Logger
	health     func(ctx context.Context) error
}

// New creates a server.
func New(cfg Config, deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 15 * time.Second
	}
	return &Server{
		cfg:        cfg,
		diagnostic: deps.Diagnostic,
		tutor:      deps.Tutor,
		metrics:    deps.Metrics,
		log:        log,
		health:     deps.Health,
	}
}

// Routes builds the gin engine with all routes and middleware.
func (s *Server) Routes() http.Handler {
	if !s.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(recovery(s.log), requestLogger(s.log, s.metrics), cors.New(s.corsConfig()))

	engine.GET("/healthz", s.handleHealthz)
	if s.metrics != nil {
		engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := engine.Group("/api")
	{
		api.POST("/tutor/chat", s.handleTutorChat)
		api.POST("/diagnostic", s.handleDiagnostic)
		api.GET("/diagnostic/:id", s.handleDiagnosticStatus)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorEnvelope{Error: APIError{Message: "route not found", Code: "not_found"}})
	})

	return engine
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if len(s.cfg.CORSOrigins) == 0 || slices.Contains(s.cfg.CORSOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.cfg.CORSOrigins
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("http server listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealthz(c *gin.Context) {
	if s.health != nil {
		if err := s.health(c.Request.Context()); err != nil {
			s.log.Warn("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
