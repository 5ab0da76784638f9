// Package lifecycle tracks a client's in-flight requests and coordinates a
// graceful shutdown.
//
// Every request acquires a slot before it reaches the transport and
// releases it when its result has been delivered. Shutdown stops new
// acquisitions and waits for the outstanding ones to drain.
package lifecycle

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jdziat/netreq/pkg/logging"
)

// Metrics is a minimal metrics interface.
type Metrics interface {
	IncrementCounter(name string, value int64)
	SetGauge(name string, value float64)
	RecordDuration(name string, d time.Duration)
}

// Metric names recorded by the Manager.
const (
	MetricInflight         = "netreq.client.inflight"
	MetricState            = "netreq.client.state"
	MetricRejected         = "netreq.client.rejected"
	MetricUptime           = "netreq.client.uptime"
	MetricShutdownComplete = "netreq.client.shutdown_complete"
)

// ErrClosed is returned when a request is started after shutdown began.
var ErrClosed = errors.New("netreq: client is closed or shutting down")

// State represents the current state of the client lifecycle.
type State int32

const (
	// StateActive indicates the client accepts requests.
	StateActive State = iota

	// StateShuttingDown indicates the client is draining in-flight requests.
	StateShuttingDown

	// StateClosed indicates the client has drained and accepts nothing.
	StateClosed
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateShuttingDown:
		return "shutting_down"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stats contains lifecycle statistics.
type Stats struct {
	State     State
	CreatedAt time.Time
	Uptime    time.Duration
	Inflight  int64
	Completed int64
}

// Manager tracks in-flight requests and the client state.
type Manager struct {
	mu        sync.Mutex
	state     State
	inflight  int64
	drained   chan struct{}
	createdAt time.Time
	completed atomic.Int64

	logger  logging.StructuredLogger
	metrics Metrics
}

// NewManager creates an active manager. Both arguments may be nil.
func NewManager(logger logging.StructuredLogger, metrics Metrics) *Manager {
	return &Manager{
		state:     StateActive,
		createdAt: time.Now(),
		logger:    logging.OrNop(logger),
		metrics:   metrics,
	}
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Acquire reserves a slot for one request. The returned release function
// must be called once the request's result has been delivered; extra calls
// are ignored. After shutdown began Acquire fails with ErrClosed.
func (m *Manager) Acquire() (release func(), err error) {
	m.mu.Lock()
	if m.state != StateActive {
		m.mu.Unlock()
		m.count(MetricRejected)
		return nil, ErrClosed
	}
	m.inflight++
	n := m.inflight
	m.mu.Unlock()
	m.gauge(n)

	var once sync.Once
	return func() { once.Do(m.release) }, nil
}

func (m *Manager) release() {
	m.completed.Add(1)

	m.mu.Lock()
	m.inflight--
	n := m.inflight
	if n == 0 && m.drained != nil {
		close(m.drained)
		m.drained = nil
	}
	m.mu.Unlock()
	m.gauge(n)
}

// Shutdown stops new acquisitions and waits until every in-flight request
// has been released or ctx ends. If ctx ends first the manager stays
// shutting down and a later call waits again. Once closed, Shutdown
// returns ErrClosed.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return ErrClosed
	}
	started := m.state == StateActive
	m.state = StateShuttingDown
	var wait chan struct{}
	if m.inflight > 0 {
		if m.drained == nil {
			m.drained = make(chan struct{})
		}
		wait = m.drained
	}
	pending := m.inflight
	m.mu.Unlock()
	if started {
		m.setState(StateShuttingDown)
	}

	if wait != nil {
		m.logger.Info("waiting for in-flight requests", "count", pending)
		select {
		case <-wait:
		case <-ctx.Done():
			m.logger.Warn("shutdown interrupted with requests in flight", "error", ctx.Err())
			return ctx.Err()
		}
	}

	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return nil
	}
	m.state = StateClosed
	m.mu.Unlock()
	m.setState(StateClosed)

	if m.metrics != nil {
		m.metrics.RecordDuration(MetricUptime, time.Since(m.createdAt))
		m.metrics.IncrementCounter(MetricShutdownComplete, 1)
	}
	return nil
}

// Stats returns current lifecycle statistics.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		State:     m.state,
		CreatedAt: m.createdAt,
		Uptime:    time.Since(m.createdAt),
		Inflight:  m.inflight,
		Completed: m.completed.Load(),
	}
}

func (m *Manager) setState(s State) {
	if m.metrics != nil {
		m.metrics.SetGauge(MetricState, float64(s))
	}
}

func (m *Manager) gauge(n int64) {
	if m.metrics != nil {
		m.metrics.SetGauge(MetricInflight, float64(n))
	}
}

func (m *Manager) count(name string) {
	if m.metrics != nil {
		m.metrics.IncrementCounter(name, 1)
	}
}
