package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheus_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus("netreq", reg)

	p.IncrementCounter("netreq.http.requests", 2)
	p.IncrementCounter("netreq.http.requests", 1)
	p.IncrementCounter("netreq.http.status.404", 1)
	p.IncrementCounter("netreq.http.requests", -5)

	if got := testutil.ToFloat64(p.counters.WithLabelValues("netreq.http.requests")); got != 3 {
		t.Errorf("requests = %v, want 3", got)
	}
	if got := testutil.ToFloat64(p.counters.WithLabelValues("netreq.http.status.404")); got != 1 {
		t.Errorf("status.404 = %v, want 1", got)
	}

	want := `
# HELP netreq_events_total Total number of netreq events by name
# TYPE netreq_events_total counter
netreq_events_total{name="netreq.http.requests"} 3
netreq_events_total{name="netreq.http.status.404"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "netreq_events_total"); err != nil {
		t.Error(err)
	}
}

func TestPrometheus_DurationsAndGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus("app", reg)

	p.RecordDuration("netreq.http.duration", 150*time.Millisecond)
	p.RecordDuration("netreq.http.duration", 50*time.Millisecond)
	p.SetGauge("netreq.inflight", 4)
	p.SetGauge("netreq.inflight", 2)

	if got := testutil.ToFloat64(p.gauges.WithLabelValues("netreq.inflight")); got != 2 {
		t.Errorf("gauge = %v, want 2", got)
	}
	if n := testutil.CollectAndCount(p.durations, "app_duration_seconds"); n != 1 {
		t.Errorf("duration series = %d, want 1", n)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() != "app_duration_seconds" {
			continue
		}
		h := mf.GetMetric()[0].GetHistogram()
		if h.GetSampleCount() != 2 {
			t.Errorf("sample count = %d, want 2", h.GetSampleCount())
		}
		if sum := h.GetSampleSum(); sum < 0.199 || sum > 0.201 {
			t.Errorf("sample sum = %v, want 0.2", sum)
		}
		return
	}
	t.Error("app_duration_seconds not gathered")
}

func TestPrometheus_Unregistered(t *testing.T) {
	p := NewPrometheus("free", nil)
	p.IncrementCounter("x", 1)
	if got := testutil.ToFloat64(p.counters.WithLabelValues("x")); got != 1 {
		t.Errorf("counter = %v, want 1", got)
	}
}
