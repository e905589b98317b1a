package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/garmin-metrics/internal/application/session"
	"github.com/aescanero/garmin-metrics/internal/application/wellness"
	"github.com/aescanero/garmin-metrics/internal/config"
	"github.com/aescanero/garmin-metrics/pkg/adapters/garmin"
	"github.com/aescanero/garmin-metrics/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/garmin-metrics/pkg/adapters/storage/memory"
	redisstorage "github.com/aescanero/garmin-metrics/pkg/adapters/storage/redis"
	"github.com/aescanero/garmin-metrics/pkg/api/http"
	"github.com/aescanero/garmin-metrics/pkg/ports"

	prom "github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "garmin-metrics"

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()

	logger.Info("starting garmin-metrics",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}

	// Session storage
	var (
		sessions    ports.SessionStore
		redisClient *goredis.Client
	)
	if cfg.UseRedis() {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		sessions = redisstorage.NewSessionStorage(redisClient, cfg.Redis.KeyPrefix, logger)
	} else {
		logger.Info("REDIS_ADDR not set, keeping Garmin session in memory")
		sessions = memory.NewInMemorySessionStorage()
	}

	metricsCollector := prometheus.NewCollector(prom.DefaultRegisterer)

	// Upstream session, built once and shared by every request
	garminClient, err := garmin.NewClient(&garmin.Config{
		Email:          cfg.Garmin.Email,
		Password:       cfg.Garmin.Password,
		ConsumerKey:    cfg.Garmin.ConsumerKey,
		ConsumerSecret: cfg.Garmin.ConsumerSecret,
		SSOURL:         cfg.Garmin.SSOURL,
		APIURL:         cfg.Garmin.APIURL,
		Timeout:        cfg.Garmin.Timeout,
		Location:       loc,
		Store:          sessions,
		Metrics:        metricsCollector,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal("failed to create Garmin client", zap.Error(err))
	}

	wellnessService := wellness.NewService(&wellness.Config{
		Provider: garminClient,
		Metrics:  metricsCollector,
		Logger:   logger,
		Location: loc,
	})

	sessionMonitor := session.NewHealthMonitor(
		garminClient,
		cfg.Garmin.SessionCheckInterval,
		metricsCollector,
		logger,
	)
	sessionMonitor.Start()

	httpServer := http.NewServer(&http.Config{
		Port:              cfg.HTTPPort,
		ReadHeaderTimeout: cfg.Timeouts.ReadHeaderTimeout,
		Wellness:          wellnessService,
		Session:           sessionMonitor,
		Metrics:           metricsCollector,
		Logger:            logger,
	})

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("garmin-metrics started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("timezone", loc.String()),
		zap.Bool("redis_sessions", cfg.UseRedis()))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	sessionMonitor.Stop()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("garmin-metrics shut down complete")
}

// initLogger initializes the logger based on log level and format
func initLogger(level, format string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	var config zap.Config
	if format == "console" {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	logger = logger.With(zap.String("service_name", serviceName))
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		logger = logger.With(zap.String("hostname", hostname))
	}

	return logger
}
