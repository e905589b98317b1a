package session

import (
	"context"
	"sync"
	"time"

	"github.com/aescanero/garmin-metrics/pkg/ports"
	"go.uber.org/zap"
)

// Checker reports whether a valid upstream session is stored
type Checker interface {
	SessionActive(ctx context.Context) (bool, error)
}

// Session states reported by the monitor
const (
	StateActive  = "active"
	StateAbsent  = "absent"
	StateUnknown = "unknown"
)

// Status is the last observed session state
type Status struct {
	State     string    `json:"state"`
	CheckedAt time.Time `json:"checked_at"`
	Error     string    `json:"error,omitempty"`
}

// HealthMonitor monitors the upstream session
type HealthMonitor struct {
	checker  Checker
	interval time.Duration
	timeout  time.Duration
	metrics  ports.MetricsCollector
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	status  Status
}

// NewHealthMonitor creates a new session health monitor
func NewHealthMonitor(checker Checker, interval time.Duration, metrics ports.MetricsCollector, logger *zap.Logger) *HealthMonitor {
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := interval / 2
	if timeout <= 0 || timeout > 5*time.Second {
		timeout = 5 * time.Second
	}

	return &HealthMonitor{
		checker:  checker,
		interval: interval,
		timeout:  timeout,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
		status:   Status{State: StateUnknown},
	}
}

// Start starts the health monitor. A non-positive interval disables it.
func (h *HealthMonitor) Start() {
	h.mu.Lock()
	if h.running || h.interval <= 0 {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.stopCh = make(chan struct{})
	h.doneCh = make(chan struct{})
	stopCh, doneCh := h.stopCh, h.doneCh
	h.mu.Unlock()

	go h.run(stopCh, doneCh)
}

// Stop stops the health monitor and waits for the loop to exit
func (h *HealthMonitor) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	stopCh, doneCh := h.stopCh, h.doneCh
	h.mu.Unlock()

	close(stopCh)
	<-doneCh
}

// run is the main monitoring loop
func (h *HealthMonitor) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.Check(context.Background())

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			h.Check(context.Background())
		}
	}
}

// Check queries the session once and updates the status
func (h *HealthMonitor) Check(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	active, err := h.checker.SessionActive(ctx)

	status := Status{State: StateAbsent, CheckedAt: h.now().UTC()}
	switch {
	case err != nil:
		status.State = StateUnknown
		status.Error = err.Error()
		h.logger.Warn("session check failed", zap.Error(err))
	case active:
		status.State = StateActive
	}

	h.metrics.RecordSessionStatus(status.State == StateActive)
	h.logger.Debug("session health check", zap.String("state", status.State))

	h.mu.Lock()
	h.status = status
	h.mu.Unlock()

	return status
}

// GetStatus returns the last observed status
func (h *HealthMonitor) GetStatus() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}
