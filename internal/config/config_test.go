package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T) {
	t.Setenv("GARMIN_EMAIL", "runner@example.com")
	t.Setenv("GARMIN_PASS", "s3cret")
	t.Setenv("GARMIN_OAUTH_CONSUMER_KEY", "consumer-key")
	t.Setenv("GARMIN_OAUTH_CONSUMER_SECRET", "consumer-secret")
}

func TestLoad_DefaultValues(t *testing.T) {
	setCredentials(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, ":8080", cfg.GetHTTPAddr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)

	assert.Equal(t, "https://sso.garmin.com", cfg.Garmin.SSOURL)
	assert.Equal(t, "https://connectapi.garmin.com", cfg.Garmin.APIURL)
	assert.Equal(t, 30*time.Second, cfg.Garmin.Timeout)
	assert.Equal(t, "Local", cfg.Garmin.Timezone)
	assert.Equal(t, time.Minute, cfg.Garmin.SessionCheckInterval)
	assert.Equal(t, "consumer-key", cfg.Garmin.ConsumerKey)

	assert.False(t, cfg.UseRedis())
	assert.Equal(t, "garmin-metrics:session:", cfg.Redis.KeyPrefix)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.ShutdownTimeout)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	setCredentials(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("GARMIN_TIMEZONE", "UTC")
	t.Setenv("GARMIN_TIMEOUT", "5s")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.GetHTTPAddr())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 5*time.Second, cfg.Garmin.Timeout)
	assert.True(t, cfg.UseRedis())
	assert.Equal(t, 2, cfg.Redis.DB)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("GARMIN_EMAIL", "")
	t.Setenv("GARMIN_PASS", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GARMIN_EMAIL")
}

func TestLoad_MissingOAuthConsumer(t *testing.T) {
	setCredentials(t)
	t.Setenv("GARMIN_OAUTH_CONSUMER_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GARMIN_OAUTH_CONSUMER_KEY")
}

func TestValidate_Rejects(t *testing.T) {
	base := func() *Config {
		return &Config{
			HTTPPort:  8080,
			LogLevel:  "info",
			LogFormat: "json",
			Garmin: GarminConfig{
				Email:          "a@b.c",
				Password:       "x",
				ConsumerKey:    "k",
				ConsumerSecret: "s",
				Timeout:        time.Second,
				Timezone:       "UTC",
			},
		}
	}
	require.NoError(t, base().Validate())

	cases := map[string]func(*Config){
		"port":      func(c *Config) { c.HTTPPort = 70000 },
		"timeout":   func(c *Config) { c.Garmin.Timeout = 0 },
		"timezone":  func(c *Config) { c.Garmin.Timezone = "Mars/Olympus" },
		"interval":  func(c *Config) { c.Garmin.SessionCheckInterval = -time.Second },
		"consumer":  func(c *Config) { c.Garmin.ConsumerSecret = "" },
		"logLevel":  func(c *Config) { c.LogLevel = "trace" },
		"logFormat": func(c *Config) { c.LogFormat = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
