package netreqtest

import (
	"testing"
	"time"
)

func TestMockMetrics_Counter(t *testing.T) {
	m := NewMockMetrics()

	m.IncrementCounter("netreq.results.success", 1)
	m.IncrementCounter("netreq.results.success", 2)
	m.IncrementCounter("other", 5)

	if got := m.GetCounter("netreq.results.success"); got != 3 {
		t.Errorf("GetCounter(success) = %d, want 3", got)
	}
	if got := m.GetCounter("other"); got != 5 {
		t.Errorf("GetCounter(other) = %d, want 5", got)
	}
	if got := m.GetCounter("missing"); got != 0 {
		t.Errorf("GetCounter(missing) = %d, want 0", got)
	}
}

func TestMockMetrics_GaugeAndTiming(t *testing.T) {
	m := NewMockMetrics()

	m.SetGauge("inflight", 10.5)
	m.SetGauge("inflight", 15.2)
	m.RecordDuration("netreq.http.duration", 100*time.Millisecond)
	m.RecordDuration("netreq.http.duration", 200*time.Millisecond)

	if got := m.GetGauge("inflight"); got != 15.2 {
		t.Errorf("GetGauge(inflight) = %f, want 15.2", got)
	}
	timings := m.GetTimings("netreq.http.duration")
	if len(timings) != 2 {
		t.Fatalf("len(GetTimings) = %d, want 2", len(timings))
	}
	if timings[0] != int64(100*time.Millisecond) {
		t.Errorf("timing[0] = %d, want %d", timings[0], int64(100*time.Millisecond))
	}
}

func TestMockMetrics_Reset(t *testing.T) {
	m := NewMockMetrics()
	m.IncrementCounter("c", 1)
	m.SetGauge("g", 1)
	m.RecordDuration("d", time.Second)

	m.Reset()

	if m.GetCounter("c") != 0 || m.GetGauge("g") != 0 || len(m.GetTimings("d")) != 0 {
		t.Error("Reset did not clear metrics")
	}
}

func TestMockLogger(t *testing.T) {
	l := NewMockLogger()

	l.Debug("request classified", "kind", "empty_data")
	l.Warn("duplicate transport completion ignored", "url", "https://example.com")
	l.Printf("value=%d", 3)

	if l.MessageCount() != 3 {
		t.Errorf("MessageCount() = %d, want 3", l.MessageCount())
	}

	msgs := l.GetMessages()
	if msgs[2] != "value=3" {
		t.Errorf("Printf message = %q, want %q", msgs[2], "value=3")
	}

	warns := l.EntriesAt("warn")
	if len(warns) != 1 {
		t.Fatalf("len(EntriesAt(warn)) = %d, want 1", len(warns))
	}
	if len(warns[0].Args) != 2 || warns[0].Args[0] != "url" {
		t.Errorf("warn args = %v", warns[0].Args)
	}

	l.Reset()
	if l.MessageCount() != 0 {
		t.Errorf("MessageCount() after Reset = %d, want 0", l.MessageCount())
	}
}
