package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for garmin-metrics
type Config struct {
	// Server configuration
	HTTPPort  int    `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Garmin Connect configuration
	Garmin GarminConfig

	// Redis configuration (session storage)
	Redis RedisConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// GarminConfig holds upstream credentials and endpoints
type GarminConfig struct {
	Email    string `env:"GARMIN_EMAIL"`
	Password string `env:"GARMIN_PASS"`

	// OAuth1 consumer of the Connect mobile app, used to sign the token exchange
	ConsumerKey    string `env:"GARMIN_OAUTH_CONSUMER_KEY"`
	ConsumerSecret string `env:"GARMIN_OAUTH_CONSUMER_SECRET"`

	SSOURL  string        `env:"GARMIN_SSO_URL" envDefault:"https://sso.garmin.com"`
	APIURL  string        `env:"GARMIN_API_URL" envDefault:"https://connectapi.garmin.com"`
	Timeout time.Duration `env:"GARMIN_TIMEOUT" envDefault:"30s"`

	// Timezone is the IANA zone of the account; "Local" uses the host zone.
	Timezone string `env:"GARMIN_TIMEZONE" envDefault:"Local"`

	// SessionCheckInterval paces the session monitor; 0 disables it.
	SessionCheckInterval time.Duration `env:"SESSION_CHECK_INTERVAL" envDefault:"1m"`
}

// RedisConfig holds Redis connection configuration. An empty address keeps
// the session in process memory.
type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR"`
	Password  string `env:"REDIS_PASS"`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"garmin-metrics:session:"`

	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	ReadHeaderTimeout time.Duration `env:"TIMEOUT_READ_HEADER" envDefault:"10s"`
	ShutdownTimeout   time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	// Validate Garmin config
	if c.Garmin.Email == "" || c.Garmin.Password == "" {
		return fmt.Errorf("GARMIN_EMAIL and GARMIN_PASS are required")
	}
	if c.Garmin.ConsumerKey == "" || c.Garmin.ConsumerSecret == "" {
		return fmt.Errorf("GARMIN_OAUTH_CONSUMER_KEY and GARMIN_OAUTH_CONSUMER_SECRET are required")
	}
	if c.Garmin.Timeout <= 0 {
		return fmt.Errorf("garmin timeout must be positive")
	}
	if c.Garmin.SessionCheckInterval < 0 {
		return fmt.Errorf("session check interval must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}

	// Validate log settings
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.LogFormat)
	}

	return nil
}

// Location resolves the configured Garmin timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Garmin.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Garmin.Timezone, err)
	}
	return loc, nil
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// UseRedis reports whether sessions are kept in Redis
func (c *Config) UseRedis() bool {
	return c.Redis.Addr != ""
}
