package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest("/hrv", 200, 120*time.Millisecond)
	c.RecordRequest("/hrv", 200, 80*time.Millisecond)
	c.RecordRequest("/spo2", 404, 10*time.Millisecond)
	c.RecordUpstreamCall("hrv", "ok", 100*time.Millisecond)
	c.RecordLogin("failed")
	c.RecordFilterResult("morning", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("/hrv", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("/spo2", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.upstreamCalls.WithLabelValues("hrv", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.logins.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.filterResults.WithLabelValues("morning", "false")))
}

func TestCollector_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordUpstreamCall("vo2max", "no_data", time.Second)

	count, err := testutil.GatherAndCount(reg, "garmin_metrics_upstream_calls_total", "garmin_metrics_upstream_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCollector_SessionGauge(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordSessionStatus(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sessionActive))

	c.RecordSessionStatus(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(c.sessionActive))
}
