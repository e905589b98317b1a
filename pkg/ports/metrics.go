package ports

import "time"

// MetricsCollector records service metrics.
type MetricsCollector interface {
	RecordRequest(endpoint string, status int, duration time.Duration)
	RecordUpstreamCall(operation, outcome string, duration time.Duration)
	RecordLogin(outcome string)
	RecordFilterResult(half string, matched bool)
	RecordSessionStatus(active bool)
}

// NoopMetrics discards everything. Useful in tests.
type NoopMetrics struct{}

func (NoopMetrics) RecordRequest(string, int, time.Duration)         {}
func (NoopMetrics) RecordUpstreamCall(string, string, time.Duration) {}
func (NoopMetrics) RecordLogin(string)                               {}
func (NoopMetrics) RecordFilterResult(string, bool)                  {}
func (NoopMetrics) RecordSessionStatus(bool)                         {}
