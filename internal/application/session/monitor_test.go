package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aescanero/garmin-metrics/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChecker struct {
	active atomic.Bool
	err    error
	calls  atomic.Int32
}

func (f *fakeChecker) SessionActive(ctx context.Context) (bool, error) {
	f.calls.Add(1)
	return f.active.Load(), f.err
}

type gaugeRecorder struct {
	ports.NoopMetrics
	last atomic.Int32 // -1 unset, 0 inactive, 1 active
}

func (g *gaugeRecorder) RecordSessionStatus(active bool) {
	if active {
		g.last.Store(1)
		return
	}
	g.last.Store(0)
}

func TestHealthMonitor_InitialStatusIsUnknown(t *testing.T) {
	h := NewHealthMonitor(&fakeChecker{}, time.Minute, nil, zap.NewNop())
	assert.Equal(t, StateUnknown, h.GetStatus().State)
}

func TestHealthMonitor_Check(t *testing.T) {
	checker := &fakeChecker{}
	metrics := &gaugeRecorder{}
	metrics.last.Store(-1)

	h := NewHealthMonitor(checker, time.Minute, metrics, zap.NewNop())
	fixed := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	status := h.Check(context.Background())
	assert.Equal(t, StateAbsent, status.State)
	assert.Equal(t, fixed, status.CheckedAt)
	assert.Equal(t, int32(0), metrics.last.Load())

	checker.active.Store(true)
	status = h.Check(context.Background())
	assert.Equal(t, StateActive, status.State)
	assert.Equal(t, int32(1), metrics.last.Load())
	assert.Equal(t, status, h.GetStatus())
}

func TestHealthMonitor_CheckError(t *testing.T) {
	checker := &fakeChecker{err: errors.New("redis down")}
	h := NewHealthMonitor(checker, time.Minute, nil, zap.NewNop())

	status := h.Check(context.Background())
	assert.Equal(t, StateUnknown, status.State)
	assert.Equal(t, "redis down", status.Error)
}

func TestHealthMonitor_StartStop(t *testing.T) {
	checker := &fakeChecker{}
	checker.active.Store(true)

	h := NewHealthMonitor(checker, 10*time.Millisecond, nil, zap.NewNop())
	h.Start()
	h.Start()

	require.Eventually(t, func() bool {
		return checker.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	h.Stop()
	h.Stop()

	assert.Equal(t, StateActive, h.GetStatus().State)
}

func TestHealthMonitor_Restart(t *testing.T) {
	checker := &fakeChecker{}
	h := NewHealthMonitor(checker, 10*time.Millisecond, nil, zap.NewNop())

	h.Start()
	h.Stop()
	calls := checker.calls.Load()

	h.Start()
	require.Eventually(t, func() bool {
		return checker.calls.Load() > calls
	}, time.Second, 5*time.Millisecond)
	assert.NotPanics(t, h.Stop)
}

func TestHealthMonitor_DisabledWithZeroInterval(t *testing.T) {
	checker := &fakeChecker{}
	h := NewHealthMonitor(checker, 0, nil, zap.NewNop())

	h.Start()
	h.Stop()

	assert.Equal(t, int32(0), checker.calls.Load())
}
