package netreq

import (
	"net/http"
	"time"

	"github.com/jdziat/netreq/pkg/builder"
	"github.com/jdziat/netreq/pkg/codec"
	"github.com/jdziat/netreq/pkg/config"
	"github.com/jdziat/netreq/pkg/metrics"
	"github.com/jdziat/netreq/pkg/transport"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	config     *config.Config
	httpClient *http.Client
	transport  transport.Transport
	logger     StructuredLogger
	metrics    metrics.Recorder
	hooks      []transport.HTTPHook
	builder    builder.Builder
	decoder    codec.Decoder
}

// WithConfig replaces the configuration. Later options still apply on top
// of it.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg != nil {
			o.config = cfg.Clone()
		}
	}
}

// WithHTTPClient sets the *http.Client used by the default transport.
// Timeout and connection pool settings from the configuration are then
// ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTransport replaces the default HTTP transport. Hooks, the response
// size limit and the HTTP client settings do not apply to it.
func WithTransport(t transport.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithLogger sets the logger used by the dispatcher and the transport hooks.
func WithLogger(l StructuredLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records request and result metrics.
func WithMetrics(m metrics.Recorder) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithHooks adds HTTP hooks to the default transport. They run after the
// built-in hooks.
func WithHooks(hooks ...transport.HTTPHook) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, hooks...)
	}
}

// WithBuilder replaces the request builder.
func WithBuilder(b builder.Builder) Option {
	return func(o *options) {
		o.builder = b
	}
}

// WithDecoder replaces the response decoder.
func WithDecoder(d codec.Decoder) Option {
	return func(o *options) {
		o.decoder = d
	}
}

// WithUserAgent sets the User-Agent sent on requests without one.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.config.UserAgent = ua
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.config.Timeout = timeout
	}
}

// WithDebug enables the debug hook, which logs request and response headers.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.config.Debug = debug
	}
}

// WithDefaultHeaders adds headers to requests that do not already carry
// them.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(o *options) {
		if o.config.DefaultHeaders == nil {
			o.config.DefaultHeaders = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			o.config.DefaultHeaders[k] = v
		}
	}
}
