package garmin

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aescanero/garmin-metrics/pkg/domain"
	"github.com/aescanero/garmin-metrics/pkg/ports"
	"github.com/dghubble/oauth1"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	DefaultSSOURL = "https://sso.garmin.com"
	DefaultAPIURL = "https://connectapi.garmin.com"

	userAgent = "com.garmin.android.apps.connectmobile"
)

// Upstream call outcomes, used as metric labels
const (
	outcomeOK       = "ok"
	outcomeAuth     = "auth_failed"
	outcomeNoData   = "no_data"
	outcomeUpstream = "error"
)

// Config holds Garmin client configuration
type Config struct {
	Email    string
	Password string

	// OAuth1 consumer of the Connect mobile app; signs the token exchange.
	ConsumerKey    string
	ConsumerSecret string

	SSOURL   string
	APIURL   string
	Timeout  time.Duration
	Location *time.Location
	Store    ports.SessionStore
	Metrics  ports.MetricsCollector
	Logger   *zap.Logger
}

// Client is an authenticated Garmin Connect session
type Client struct {
	email    string
	password string
	ssoURL   string
	apiURL   string
	timeout  time.Duration
	loc      *time.Location

	sso   *resty.Client
	api   *resty.Client
	oauth *oauth1.Config

	store   ports.SessionStore
	metrics ports.MetricsCollector
	logger  *zap.Logger
	now     func() time.Time

	// mu serializes session lookup and login
	mu         sync.Mutex
	sessionKey string
}

// NewClient creates a Garmin client. No network call is made until first use.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.Email == "" || cfg.Password == "" {
		return nil, fmt.Errorf("garmin credentials are required")
	}
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		return nil, fmt.Errorf("garmin OAuth consumer key and secret are required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}

	ssoURL := strings.TrimRight(orDefault(cfg.SSOURL, DefaultSSOURL), "/")
	apiURL := strings.TrimRight(orDefault(cfg.APIURL, DefaultAPIURL), "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sso := resty.New().
		SetBaseURL(ssoURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)

	api := resty.New().
		SetBaseURL(apiURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	sum := sha256.Sum256([]byte(strings.ToLower(cfg.Email)))

	return &Client{
		email:      cfg.Email,
		password:   cfg.Password,
		ssoURL:     ssoURL,
		apiURL:     apiURL,
		timeout:    timeout,
		loc:        loc,
		sso:        sso,
		api:        api,
		oauth:      oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret),
		store:      cfg.Store,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
		sessionKey: hex.EncodeToString(sum[:]),
	}, nil
}

// VO2Max fetches the daily max metrics and returns the generic VO2Max value
func (c *Client) VO2Max(ctx context.Context, date string) (*domain.VO2MaxRecord, error) {
	const op = "vo2max"

	var entries []maxMetricsEntry
	path := fmt.Sprintf("/metrics-service/metrics/maxmet/daily/%s/%s", date, date)
	if err := c.get(ctx, op, date, path, &entries); err != nil {
		return nil, err
	}

	for i := len(entries) - 1; i >= 0; i-- {
		g := entries[i].Generic
		if g == nil {
			continue
		}
		value := g.VO2MaxPreciseValue
		if value == nil {
			value = g.VO2MaxValue
		}
		if value == nil {
			continue
		}
		return &domain.VO2MaxRecord{
			CalendarDate: orDefault(g.CalendarDate, date),
			Value:        *value,
		}, nil
	}

	return nil, c.noData(op, date, "no VO2Max in max metrics")
}

// HRV fetches the nightly HRV summary and readings
func (c *Client) HRV(ctx context.Context, date string) (*domain.HRVRecord, error) {
	const op = "hrv"

	var resp hrvResponse
	if err := c.get(ctx, op, date, "/hrv-service/hrv/"+date, &resp); err != nil {
		return nil, err
	}

	if resp.HRVSummary == nil || resp.HRVSummary.LastNightAvg == nil {
		return nil, c.noData(op, date, "no HRV summary")
	}

	record := &domain.HRVRecord{
		CalendarDate: orDefault(resp.HRVSummary.CalendarDate, date),
		LastNightAvg: *resp.HRVSummary.LastNightAvg,
		Readings:     make([]domain.Reading, 0, len(resp.HRVReadings)),
	}

	for _, r := range resp.HRVReadings {
		ts, err := time.ParseInLocation(readingTimeLayout, r.ReadingTimeLocal, c.loc)
		if err != nil {
			c.logger.Warn("skipping HRV reading with bad timestamp",
				zap.String("reading_time", r.ReadingTimeLocal),
				zap.Error(err))
			continue
		}
		record.Readings = append(record.Readings, domain.Reading{Timestamp: ts, Value: r.HRVValue})
	}

	return record, nil
}

// SpO2 fetches the daily blood oxygen summary
func (c *Client) SpO2(ctx context.Context, date string) (*domain.SpO2Record, error) {
	const op = "spo2"

	var resp spo2Response
	if err := c.get(ctx, op, date, "/wellness-service/wellness/daily/spo2/"+date, &resp); err != nil {
		return nil, err
	}

	if resp.AverageSleepSpO2 == nil && len(resp.SpO2HourlyAverages) == 0 {
		return nil, c.noData(op, date, "no SpO2 readings")
	}

	record := &domain.SpO2Record{
		CalendarDate:   orDefault(resp.CalendarDate, date),
		HourlyAverages: pairsToReadings(resp.SpO2HourlyAverages, c.loc),
	}
	if resp.AverageSleepSpO2 != nil {
		record.AverageSleepSpO2 = *resp.AverageSleepSpO2
	}

	return record, nil
}

// Respiration fetches the respiratory-rate samples for a day
func (c *Client) Respiration(ctx context.Context, date string) (*domain.RespirationRecord, error) {
	const op = "respiration"

	var resp respirationResponse
	if err := c.get(ctx, op, date, "/wellness-service/wellness/daily/respiration/"+date, &resp); err != nil {
		return nil, err
	}

	readings := pairsToReadings(resp.RespirationValuesArray, c.loc)
	if len(readings) == 0 {
		return nil, c.noData(op, date, "no respiration samples")
	}

	samples := make([]domain.RespiratorySample, len(readings))
	for i, r := range readings {
		samples[i] = domain.RespiratorySample{Timestamp: r.Timestamp, Value: r.Value}
	}

	return &domain.RespirationRecord{
		CalendarDate: orDefault(resp.CalendarDate, date),
		Samples:      samples,
	}, nil
}

// get performs an authenticated GET and decodes the JSON body into out
func (c *Client) get(ctx context.Context, op, date, path string, out interface{}) error {
	session, err := c.session(ctx)
	if err != nil {
		outcome := outcomeUpstream
		if domain.IsKind(err, domain.KindAuthentication) {
			outcome = outcomeAuth
		}
		c.metrics.RecordUpstreamCall(op, outcome, 0)
		return err
	}

	start := time.Now()
	resp, err := c.api.R().
		SetContext(ctx).
		SetAuthToken(session.AccessToken).
		SetResult(out).
		Get(path)
	duration := time.Since(start)

	if err != nil {
		c.metrics.RecordUpstreamCall(op, outcomeUpstream, duration)
		c.logger.Error("Garmin API call failed",
			zap.String("operation", op),
			zap.String("date", date),
			zap.Error(err))
		return domain.NewOpError("garmin."+op, domain.KindUpstream, date, err)
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		c.metrics.RecordUpstreamCall(op, outcomeAuth, duration)
		c.logger.Warn("Garmin rejected session token, dropping it",
			zap.String("operation", op),
			zap.Int("status_code", status))
		c.invalidate(ctx, session.AccessToken)
		return domain.NewOpError("garmin."+op, domain.KindAuthentication, date,
			fmt.Errorf("status %d", status))

	case status == http.StatusNotFound || status == http.StatusNoContent:
		c.metrics.RecordUpstreamCall(op, outcomeNoData, duration)
		return domain.NewOpError("garmin."+op, domain.KindNoData, date,
			fmt.Errorf("status %d", status))

	case resp.IsError():
		c.metrics.RecordUpstreamCall(op, outcomeUpstream, duration)
		c.logger.Error("Garmin API returned error",
			zap.String("operation", op),
			zap.Int("status_code", status),
			zap.String("body", truncate(resp.String(), 256)))
		return domain.NewOpError("garmin."+op, domain.KindUpstream, date,
			fmt.Errorf("status %d", status))
	}

	c.metrics.RecordUpstreamCall(op, outcomeOK, duration)
	c.logger.Debug("Garmin API call succeeded",
		zap.String("operation", op),
		zap.String("date", date),
		zap.Duration("duration", duration))

	return nil
}

// session returns a valid session, logging in when none is stored
func (c *Client) session(ctx context.Context) (*ports.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.store.Load(ctx, c.sessionKey)
	switch {
	case err == nil && session.Valid(c.now()):
		return session, nil
	case err != nil && !errors.Is(err, ports.ErrSessionNotFound):
		c.logger.Warn("failed to load stored session, logging in again", zap.Error(err))
	}

	session, err = c.login(ctx)
	if err != nil {
		c.metrics.RecordLogin("failed")
		return nil, err
	}
	c.metrics.RecordLogin("ok")

	if err := c.store.Save(ctx, c.sessionKey, session); err != nil {
		c.logger.Warn("failed to store session", zap.Error(err))
	}

	return session, nil
}

// SessionActive reports whether a valid session is stored. It never logs in.
func (c *Client) SessionActive(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.store.Load(ctx, c.sessionKey)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return session.Valid(c.now()), nil
}

// invalidate drops the stored session if it still holds the rejected token.
// A session saved by a concurrent login is kept.
func (c *Client) invalidate(ctx context.Context, rejected string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, err := c.store.Load(ctx, c.sessionKey)
	switch {
	case errors.Is(err, ports.ErrSessionNotFound):
		return
	case err == nil && stored.AccessToken != rejected:
		c.logger.Debug("stored session already replaced, keeping it")
		return
	}

	if err := c.store.Delete(ctx, c.sessionKey); err != nil {
		c.logger.Warn("failed to delete session", zap.Error(err))
	}
}

func (c *Client) noData(op, date, msg string) error {
	c.logger.Info("Garmin returned no data",
		zap.String("operation", op),
		zap.String("date", date))
	return domain.NewOpError("garmin."+op, domain.KindNoData, date, errors.New(msg))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
