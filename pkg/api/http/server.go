package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aescanero/garmin-metrics/internal/application/session"
	"github.com/aescanero/garmin-metrics/internal/application/wellness"
	"github.com/aescanero/garmin-metrics/pkg/ports"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server represents the HTTP API server
type Server struct {
	router   *gin.Engine
	server   *http.Server
	wellness *wellness.Service
	session  SessionStatus
	metrics  ports.MetricsCollector
	logger   *zap.Logger
}

// SessionStatus exposes the last observed upstream session state
type SessionStatus interface {
	GetStatus() session.Status
}

// Config holds HTTP server configuration
type Config struct {
	Port              int
	ReadHeaderTimeout time.Duration
	Wellness          *wellness.Service
	Session           SessionStatus
	Metrics           ports.MetricsCollector
	Logger            *zap.Logger

	// MetricsHandler serves /metrics; defaults to promhttp.Handler().
	MetricsHandler http.Handler
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(cfg.Logger))
	router.Use(requestMetrics(metrics))
	router.Use(corsMiddleware())

	s := &Server{
		router:   router,
		wellness: cfg.Wellness,
		session:  cfg.Session,
		metrics:  metrics,
		logger:   cfg.Logger,
	}

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	s.setupRoutes(metricsHandler)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	return s
}

// setupRoutes configures API routes
func (s *Server) setupRoutes(metricsHandler http.Handler) {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// Metrics
	s.router.GET("/metrics", gin.WrapH(metricsHandler))

	// Wellness metrics
	s.router.GET("/vo2max", s.handleVO2Max)
	s.router.GET("/hrv", s.handleHRV)
	s.router.GET("/spo2", s.handleSpO2)
	s.router.GET("/respiratory_rate", s.handleRespiratoryRate)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}
