// Package id generates request identifiers.
//
// IDs are random UUID v4 strings. When the system randomness source fails,
// a Generator in ModeFallback produces a "fb-" prefixed ID built from the
// clock, a counter and the process ID; ModeStrict returns the error instead.
package id

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jdziat/netreq/pkg/logging"
)

// Metrics receives ID generation counters.
type Metrics interface {
	IncrementCounter(name string, value int64)
}

// Mode controls how IDs are generated when randomness fails.
type Mode int

const (
	// ModeFallback uses a clock and counter based ID when randomness fails.
	ModeFallback Mode = iota

	// ModeStrict returns an error when randomness fails.
	ModeStrict
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeFallback:
		return "fallback"
	case ModeStrict:
		return "strict"
	default:
		return "unknown"
	}
}

var (
	fallbackCounter atomic.Uint64
	processID       = os.Getpid()
)

// Generator generates unique IDs.
type Generator struct {
	mode     Mode
	metrics  Metrics
	logger   logging.StructuredLogger
	random   func() (uuid.UUID, error)
	failures atomic.Int64
}

// NewGenerator creates a generator. metrics and logger may be nil.
func NewGenerator(mode Mode, metrics Metrics, logger logging.StructuredLogger) *Generator {
	return &Generator{
		mode:    mode,
		metrics: metrics,
		logger:  logging.OrNop(logger),
		random:  uuid.NewRandom,
	}
}

// Generate returns a new ID. It fails only in ModeStrict.
func (g *Generator) Generate() (string, error) {
	u, err := g.random()
	if err == nil {
		return u.String(), nil
	}

	failures := g.failures.Add(1)
	g.count("netreq.id.random_failures")

	if g.mode == ModeStrict {
		return "", fmt.Errorf("netreq: random ID generation failed (%d failures): %w", failures, err)
	}
	if failures == 1 {
		g.logger.Warn("random ID generation failed, using fallback IDs", "error", err)
	}
	g.count("netreq.id.fallback_used")
	return fallbackID(), nil
}

// MustGenerate is Generate for callers that cannot handle an error. It
// never panics in ModeFallback.
func (g *Generator) MustGenerate() string {
	s, err := g.Generate()
	if err != nil {
		panic(err)
	}
	return s
}

// Failures returns how many times randomness failed.
func (g *Generator) Failures() int64 {
	return g.failures.Load()
}

func (g *Generator) count(name string) {
	if g.metrics != nil {
		g.metrics.IncrementCounter(name, 1)
	}
}

// fallbackID returns fb-{unixnano_hex}-{counter_hex}-{pid}.
func fallbackID() string {
	return fmt.Sprintf("fb-%x-%08x-%d", time.Now().UnixNano(), fallbackCounter.Add(1), processID)
}

// IsFallbackID reports whether s was produced by the fallback method.
func IsFallbackID(s string) bool {
	return len(s) > 3 && s[:3] == "fb-"
}

var defaultGenerator = NewGenerator(ModeFallback, nil, nil)

// New returns an ID from the package-level fallback generator. It never
// fails.
func New() string {
	return defaultGenerator.MustGenerate()
}
