// Package metrics records netreq telemetry with Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives counters, durations and gauges keyed by dotted names
// such as "netreq.http.requests".
type Recorder interface {
	IncrementCounter(name string, value int64)
	RecordDuration(name string, duration time.Duration)
	SetGauge(name string, value float64)
}

// Prometheus is a Recorder backed by three labelled Prometheus vectors.
// The dotted metric name becomes the "name" label:
//
//	<namespace>_events_total{name="netreq.http.requests"}
//	<namespace>_duration_seconds{name="netreq.http.duration"}
//	<namespace>_gauge{name="..."}
type Prometheus struct {
	counters  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	gauges    *prometheus.GaugeVec
}

// NewPrometheus creates the collectors and registers them with reg. A nil
// reg leaves them unregistered. Registering twice with the same namespace
// panics, as with promauto.
func NewPrometheus(namespace string, reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		counters: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Total number of netreq events by name",
		}, []string{"name"}),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Duration of netreq operations in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"name"}),
		gauges: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gauge",
			Help:      "Current value of netreq gauges by name",
		}, []string{"name"}),
	}
}

// IncrementCounter implements Recorder. Negative values are ignored, since
// Prometheus counters only go up.
func (p *Prometheus) IncrementCounter(name string, value int64) {
	if value < 0 {
		return
	}
	p.counters.WithLabelValues(name).Add(float64(value))
}

// RecordDuration implements Recorder.
func (p *Prometheus) RecordDuration(name string, duration time.Duration) {
	p.durations.WithLabelValues(name).Observe(duration.Seconds())
}

// SetGauge implements Recorder.
func (p *Prometheus) SetGauge(name string, value float64) {
	p.gauges.WithLabelValues(name).Set(value)
}

var _ Recorder = (*Prometheus)(nil)
