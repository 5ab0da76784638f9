package transport

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	reqid "github.com/jdziat/netreq/pkg/id"
	"github.com/jdziat/netreq/pkg/logging"
)

// ============================================================================
// Hook Priority
// ============================================================================

// HookPriority determines how hook failures are handled.
type HookPriority int

const (
	// HookPriorityObservational marks a hook whose failures are logged and
	// otherwise ignored. Use for logging, metrics and tracing.
	HookPriorityObservational HookPriority = iota

	// HookPriorityCritical marks a hook whose failures abort the request.
	// Use for authentication and request signing.
	HookPriorityCritical
)

// String returns a string representation of the hook priority.
func (p HookPriority) String() string {
	switch p {
	case HookPriorityObservational:
		return "observational"
	case HookPriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ============================================================================
// HTTP Hook Interface
// ============================================================================

// HTTPHook customizes request and response handling in the HTTP transport.
type HTTPHook interface {
	// BeforeRequest is called before the request is sent. It may modify the
	// request and return an error to abort it.
	BeforeRequest(ctx context.Context, req *http.Request) error

	// AfterResponse is called once the exchange has finished, with the
	// response (nil on failure), the elapsed time and any error.
	AfterResponse(ctx context.Context, req *http.Request, resp *http.Response, duration time.Duration, err error)
}

// ClassifiedHook wraps an HTTPHook with priority information.
type ClassifiedHook struct {
	Hook     HTTPHook
	Priority HookPriority
	Name     string
}

// HTTPHookFunc adapts plain functions to HTTPHook. Nil fields are skipped.
type HTTPHookFunc struct {
	Before func(ctx context.Context, req *http.Request) error
	After  func(ctx context.Context, req *http.Request, resp *http.Response, duration time.Duration, err error)
}

// BeforeRequest implements HTTPHook.
func (f HTTPHookFunc) BeforeRequest(ctx context.Context, req *http.Request) error {
	if f.Before != nil {
		return f.Before(ctx, req)
	}
	return nil
}

// AfterResponse implements HTTPHook.
func (f HTTPHookFunc) AfterResponse(ctx context.Context, req *http.Request, resp *http.Response, duration time.Duration, err error) {
	if f.After != nil {
		f.After(ctx, req, resp, duration, err)
	}
}

// ============================================================================
// Hook Chain
// ============================================================================

type hookChain struct {
	hooks []HTTPHook
}

func (c *hookChain) BeforeRequest(ctx context.Context, req *http.Request) error {
	for _, hook := range c.hooks {
		if err := hook.BeforeRequest(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// AfterResponse runs in reverse order so hooks nest like middleware.
func (c *hookChain) AfterResponse(ctx context.Context, req *http.Request, resp *http.Response, duration time.Duration, err error) {
	for i := len(c.hooks) - 1; i >= 0; i-- {
		c.hooks[i].AfterResponse(ctx, req, resp, duration, err)
	}
}

// CombineHooks combines hooks into one. Nil entries are dropped; it returns
// nil when nothing is left.
func CombineHooks(hooks ...HTTPHook) HTTPHook {
	kept := make([]HTTPHook, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			kept = append(kept, h)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return &hookChain{hooks: kept}
	}
}

// ============================================================================
// Classified Hook Chain
// ============================================================================

// Counter receives hook failure counts.
type Counter interface {
	IncrementCounter(name string, value int64)
}

// ClassifiedHookChain runs hooks with priority-aware error handling. A
// critical failure aborts the request; observational failures and panics in
// any hook are logged and counted.
type ClassifiedHookChain struct {
	hooks   []ClassifiedHook
	logger  logging.StructuredLogger
	metrics Counter
}

// NewClassifiedHookChain creates an empty chain. Both arguments may be nil.
func NewClassifiedHookChain(logger logging.StructuredLogger, metrics Counter) *ClassifiedHookChain {
	return &ClassifiedHookChain{
		logger:  logging.OrNop(logger),
		metrics: metrics,
	}
}

// Add adds a hook with the specified priority.
func (c *ClassifiedHookChain) Add(name string, hook HTTPHook, priority HookPriority) {
	c.hooks = append(c.hooks, ClassifiedHook{Hook: hook, Priority: priority, Name: name})
}

// AddClassified adds a pre-classified hook.
func (c *ClassifiedHookChain) AddClassified(ch ClassifiedHook) {
	c.hooks = append(c.hooks, ch)
}

// Len returns the number of hooks in the chain.
func (c *ClassifiedHookChain) Len() int {
	return len(c.hooks)
}

// BeforeRequest implements HTTPHook.
func (c *ClassifiedHookChain) BeforeRequest(ctx context.Context, req *http.Request) error {
	for _, ch := range c.hooks {
		if err := c.callBeforeRequest(ctx, req, ch); err != nil {
			return err
		}
	}
	return nil
}

func (c *ClassifiedHookChain) callBeforeRequest(ctx context.Context, req *http.Request, ch ClassifiedHook) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("hook panicked", "hook", ch.Name, "phase", "before", "panic", r)
			c.count("netreq.hooks.panics")
			if ch.Priority != HookPriorityObservational {
				err = fmt.Errorf("netreq: hook %q panicked: %v", ch.Name, r)
			}
		}
	}()

	hookErr := ch.Hook.BeforeRequest(ctx, req)
	if hookErr == nil {
		return nil
	}

	c.count("netreq.hooks.failures")
	c.count("netreq.hooks.failures." + ch.Name)

	switch ch.Priority {
	case HookPriorityObservational:
		c.logger.Warn("observational hook failed, continuing", "hook", ch.Name, "error", hookErr)
		return nil
	case HookPriorityCritical:
		return fmt.Errorf("netreq: critical hook %q failed: %w", ch.Name, hookErr)
	default:
		return fmt.Errorf("netreq: hook %q failed: %w", ch.Name, hookErr)
	}
}

// AfterResponse implements HTTPHook. Hooks run in reverse order and their
// panics are recovered.
func (c *ClassifiedHookChain) AfterResponse(ctx context.Context, req *http.Request, resp *http.Response, duration time.Duration, err error) {
	for i := len(c.hooks) - 1; i >= 0; i-- {
		c.callAfterResponse(ctx, req, resp, duration, err, c.hooks[i])
	}
}

func (c *ClassifiedHookChain) callAfterResponse(ctx context.Context, req *http.Request, resp *http.Response, duration time.Duration, requestErr error, ch ClassifiedHook) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("hook panicked", "hook", ch.Name, "phase", "after", "panic", r)
			c.count("netreq.hooks.panics")
		}
	}()

	ch.Hook.AfterResponse(ctx, req, resp, duration, requestErr)
}

func (c *ClassifiedHookChain) count(name string) {
	if c.metrics != nil {
		c.metrics.IncrementCounter(name, 1)
	}
}

var _ HTTPHook = (*ClassifiedHookChain)(nil)

// ============================================================================
// Predefined Hooks
// ============================================================================

// HeaderHook sets headers on every request, replacing existing values.
func HeaderHook(headers map[string]string) HTTPHook {
	return HTTPHookFunc{
		Before: func(ctx context.Context, req *http.Request) error {
			for k, v := range headers {
				req.Header.Set(k, v)
			}
			return nil
		},
	}
}

// DefaultHeaderHook sets headers only when the request does not carry them.
func DefaultHeaderHook(headers map[string]string) HTTPHook {
	return HTTPHookFunc{
		Before: func(ctx context.Context, req *http.Request) error {
			for k, v := range headers {
				if req.Header.Get(k) == "" {
					req.Header.Set(k, v)
				}
			}
			return nil
		},
	}
}

// UserAgentHook sets the User-Agent header unless the request already has one.
func UserAgentHook(userAgent string) HTTPHook {
	return DefaultHeaderHook(map[string]string{"User-Agent": userAgent})
}

// RequestIDHeader carries the per-request identifier.
const RequestIDHeader = "X-Request-ID"

type requestIDContextKey struct{}

// WithRequestID returns a context whose requests carry id in the
// X-Request-ID header when RequestIDHook is installed.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

// RequestIDHook sets X-Request-ID on requests that lack one. The value comes
// from WithRequestID, or a new random UUID.
func RequestIDHook() HTTPHook {
	return HTTPHookFunc{
		Before: func(ctx context.Context, req *http.Request) error {
			if req.Header.Get(RequestIDHeader) != "" {
				return nil
			}
			id, ok := ctx.Value(requestIDContextKey{}).(string)
			if !ok || id == "" {
				id = reqid.New()
			}
			req.Header.Set(RequestIDHeader, id)
			return nil
		},
	}
}

// LoggingHook logs one line per request and one per outcome.
func LoggingHook(logger logging.StructuredLogger) HTTPHook {
	logger = logging.OrNop(logger)
	return HTTPHookFunc{
		Before: func(ctx context.Context, req *http.Request) error {
			logger.Info("request", "method", req.Method, "url", req.URL.Redacted())
			return nil
		},
		After: func(ctx context.Context, req *http.Request, resp *http.Response, duration time.Duration, err error) {
			switch {
			case err != nil:
				logger.Warn("request failed", "method", req.Method, "url", req.URL.Redacted(), "duration", duration, "error", err)
			case resp != nil:
				logger.Info("response", "method", req.Method, "url", req.URL.Redacted(), "duration", duration, "status", resp.StatusCode)
			}
		},
	}
}

// DebugHook logs requests and responses with their headers. Authorization
// values are masked, but other headers are logged as is, so use it only in
// development.
func DebugHook(logger logging.StructuredLogger) HTTPHook {
	logger = logging.OrNop(logger)
	return HTTPHookFunc{
		Before: func(ctx context.Context, req *http.Request) error {
			logger.Debug("request", "method", req.Method, "url", req.URL.String())
			for k, v := range req.Header {
				if k == "Authorization" {
					logger.Debug("request header", "name", k, "value", logging.MaskAuthHeader(req.Header.Get(k)))
					continue
				}
				logger.Debug("request header", "name", k, "value", v)
			}
			return nil
		},
		After: func(ctx context.Context, req *http.Request, resp *http.Response, duration time.Duration, err error) {
			if err != nil {
				logger.Debug("response error", "error", err, "duration", duration)
				return
			}
			if resp != nil {
				logger.Debug("response", "status", resp.StatusCode, "duration", duration)
				for k, v := range resp.Header {
					logger.Debug("response header", "name", k, "value", v)
				}
			}
		},
	}
}

// MetricsRecorder records request metrics.
type MetricsRecorder interface {
	IncrementCounter(name string, value int64)
	RecordDuration(name string, duration time.Duration)
}

// Metric names recorded by MetricsHook.
const (
	MetricRequests = "netreq.http.requests"
	MetricDuration = "netreq.http.duration"
	MetricErrors   = "netreq.http.errors"
	MetricStatus   = "netreq.http.status."
)

// MetricsHook records request count, duration, errors and a per-status
// counter named MetricStatus plus the numeric code. A nil recorder yields
// a no-op hook.
func MetricsHook(m MetricsRecorder) HTTPHook {
	if m == nil {
		return HTTPHookFunc{}
	}
	return HTTPHookFunc{
		After: func(ctx context.Context, req *http.Request, resp *http.Response, duration time.Duration, err error) {
			m.IncrementCounter(MetricRequests, 1)
			m.RecordDuration(MetricDuration, duration)
			if err != nil {
				m.IncrementCounter(MetricErrors, 1)
			}
			if resp != nil {
				m.IncrementCounter(MetricStatus+strconv.Itoa(resp.StatusCode), 1)
			}
		},
	}
}

// ============================================================================
// Classified Hook Constructors
// ============================================================================

// ObservationalLoggingHook wraps LoggingHook as an observational hook.
func ObservationalLoggingHook(logger logging.StructuredLogger) ClassifiedHook {
	return ClassifiedHook{Hook: LoggingHook(logger), Priority: HookPriorityObservational, Name: "logging"}
}

// ObservationalDebugHook wraps DebugHook as an observational hook.
func ObservationalDebugHook(logger logging.StructuredLogger) ClassifiedHook {
	return ClassifiedHook{Hook: DebugHook(logger), Priority: HookPriorityObservational, Name: "debug"}
}

// ObservationalMetricsHook wraps MetricsHook as an observational hook.
func ObservationalMetricsHook(m MetricsRecorder) ClassifiedHook {
	return ClassifiedHook{Hook: MetricsHook(m), Priority: HookPriorityObservational, Name: "metrics"}
}

// CriticalAuthHook runs authFunc before every request and aborts the
// request when it fails.
func CriticalAuthHook(authFunc func(*http.Request) error) ClassifiedHook {
	return ClassifiedHook{
		Hook: HTTPHookFunc{
			Before: func(ctx context.Context, req *http.Request) error {
				return authFunc(req)
			},
		},
		Priority: HookPriorityCritical,
		Name:     "auth",
	}
}

// NewClassifiedHook creates a ClassifiedHook.
func NewClassifiedHook(name string, hook HTTPHook, priority HookPriority) ClassifiedHook {
	return ClassifiedHook{Hook: hook, Priority: priority, Name: name}
}
