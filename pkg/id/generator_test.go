package id

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

type countingMetrics struct {
	mu       sync.Mutex
	counters map[string]int64
}

func (m *countingMetrics) IncrementCounter(name string, value int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	m.counters[name] += value
}

func failingRandom() (uuid.UUID, error) {
	return uuid.Nil, errors.New("entropy exhausted")
}

func TestGenerate_Random(t *testing.T) {
	g := NewGenerator(ModeStrict, nil, nil)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		u, err := uuid.Parse(s)
		if err != nil {
			t.Fatalf("Generate() = %q, not a UUID: %v", s, err)
		}
		if u.Version() != 4 {
			t.Errorf("version = %d, want 4", u.Version())
		}
		if seen[s] {
			t.Fatalf("duplicate ID %q", s)
		}
		seen[s] = true
	}
}

func TestGenerate_Fallback(t *testing.T) {
	m := &countingMetrics{}
	g := NewGenerator(ModeFallback, m, nil)
	g.random = failingRandom

	a, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	b := g.MustGenerate()

	if !IsFallbackID(a) || !IsFallbackID(b) {
		t.Errorf("IDs %q, %q are not fallback IDs", a, b)
	}
	if a == b {
		t.Errorf("fallback IDs are equal: %q", a)
	}
	if g.Failures() != 2 {
		t.Errorf("Failures() = %d, want 2", g.Failures())
	}
	if m.counters["netreq.id.fallback_used"] != 2 {
		t.Errorf("fallback_used = %d, want 2", m.counters["netreq.id.fallback_used"])
	}
}

func TestGenerate_Strict(t *testing.T) {
	g := NewGenerator(ModeStrict, nil, nil)
	g.random = failingRandom

	_, err := g.Generate()
	if err == nil || !strings.Contains(err.Error(), "entropy exhausted") {
		t.Fatalf("Generate() error = %v, want wrapped randomness failure", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustGenerate() did not panic in strict mode")
		}
	}()
	g.MustGenerate()
}

func TestModeString(t *testing.T) {
	if ModeFallback.String() != "fallback" || ModeStrict.String() != "strict" || Mode(9).String() != "unknown" {
		t.Error("unexpected Mode strings")
	}
}

func TestNew(t *testing.T) {
	if _, err := uuid.Parse(New()); err != nil {
		t.Errorf("New() is not a UUID: %v", err)
	}
	if IsFallbackID("abc") || IsFallbackID("fb-") {
		t.Error("IsFallbackID accepted a non-fallback ID")
	}
}
