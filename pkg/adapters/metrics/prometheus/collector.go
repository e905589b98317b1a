package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements ports.MetricsCollector using Prometheus
type Collector struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	upstreamCalls    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	logins           *prometheus.CounterVec
	filterResults    *prometheus.CounterVec
	sessionActive    prometheus.Gauge
}

// NewCollector creates a new Prometheus metrics collector registered on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "garmin_metrics_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"endpoint", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "garmin_metrics_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		upstreamCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "garmin_metrics_upstream_calls_total",
				Help: "Total number of calls to the health-data provider",
			},
			[]string{"operation", "outcome"},
		),
		upstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "garmin_metrics_upstream_duration_seconds",
				Help:    "Health-data provider call latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"operation"},
		),
		logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "garmin_metrics_logins_total",
				Help: "Total number of upstream login attempts",
			},
			[]string{"outcome"},
		),
		filterResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "garmin_metrics_respiratory_filter_total",
				Help: "Respiratory-rate filter evaluations by day half and result",
			},
			[]string{"half", "matched"},
		),
		sessionActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "garmin_metrics_session_active",
				Help: "1 when a valid upstream session is stored, 0 otherwise",
			},
		),
	}
}

// RecordRequest records a served HTTP request
func (c *Collector) RecordRequest(endpoint string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordUpstreamCall records a provider call and its latency
func (c *Collector) RecordUpstreamCall(operation, outcome string, duration time.Duration) {
	c.upstreamCalls.WithLabelValues(operation, outcome).Inc()
	c.upstreamDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordLogin records an upstream login attempt
func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// RecordFilterResult records whether the respiratory filter found a sample
func (c *Collector) RecordFilterResult(half string, matched bool) {
	c.filterResults.WithLabelValues(half, strconv.FormatBool(matched)).Inc()
}

// RecordSessionStatus records whether a valid upstream session is stored
func (c *Collector) RecordSessionStatus(active bool) {
	if active {
		c.sessionActive.Set(1)
		return
	}
	c.sessionActive.Set(0)
}
