package netreq

import (
	"context"
	"fmt"

	"github.com/jdziat/netreq/pkg/config"
	"github.com/jdziat/netreq/pkg/dispatcher"
	pkgerrors "github.com/jdziat/netreq/pkg/errors"
	"github.com/jdziat/netreq/pkg/lifecycle"
	"github.com/jdziat/netreq/pkg/logging"
	"github.com/jdziat/netreq/pkg/transport"
)

// Client sends request descriptors and classifies their outcome.
type Client struct {
	config     *config.Config
	transport  transport.Transport
	dispatcher *dispatcher.Dispatcher
	lifecycle  *lifecycle.Manager
	logger     StructuredLogger
}

// New creates a Client. Without options it uses config.Default() with
// environment overrides applied, the HTTP transport and JSON decoding.
func New(opts ...Option) (*Client, error) {
	cfg := config.Default()
	config.ApplyEnv(cfg)
	o := &options{config: cfg}
	for _, opt := range opts {
		opt(o)
	}
	return newClient(o)
}

// NewWithConfig creates a Client from cfg. cfg is copied; environment
// overrides are not applied.
func NewWithConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("netreq: nil config")
	}
	o := &options{config: cfg.Clone()}
	for _, opt := range opts {
		opt(o)
	}
	return newClient(o)
}

func newClient(o *options) (*Client, error) {
	if err := o.config.Validate(); err != nil {
		return nil, err
	}

	logger := logging.OrNop(o.logger)

	tr := o.transport
	if tr == nil {
		tr = newHTTPTransport(o, logger)
	}

	dopts := []dispatcher.Option{
		dispatcher.WithLogger(logger),
		dispatcher.WithBuilder(o.builder),
		dispatcher.WithDecoder(o.decoder),
	}
	if o.metrics != nil {
		dopts = append(dopts, dispatcher.WithMetrics(o.metrics))
	}

	return &Client{
		config:     o.config,
		transport:  tr,
		dispatcher: dispatcher.New(tr, dopts...),
		lifecycle:  lifecycle.NewManager(logger, o.metrics),
		logger:     logger,
	}, nil
}

// newHTTPTransport assembles the default transport. Header hooks are
// critical so a failing one aborts the request; telemetry hooks are
// observational.
func newHTTPTransport(o *options, logger StructuredLogger) *transport.HTTP {
	chain := transport.NewClassifiedHookChain(logger, o.metrics)
	chain.Add("user_agent", transport.UserAgentHook(o.config.UserAgent), transport.HookPriorityCritical)
	if len(o.config.DefaultHeaders) > 0 {
		chain.Add("default_headers", transport.DefaultHeaderHook(o.config.DefaultHeaders), transport.HookPriorityCritical)
	}
	chain.Add("request_id", transport.RequestIDHook(), transport.HookPriorityCritical)
	if o.metrics != nil {
		chain.AddClassified(transport.ObservationalMetricsHook(o.metrics))
	}
	if o.config.Debug {
		chain.AddClassified(transport.ObservationalDebugHook(logger))
	} else {
		chain.AddClassified(transport.ObservationalLoggingHook(logger))
	}
	for i, h := range o.hooks {
		if h != nil {
			chain.Add(fmt.Sprintf("hook_%d", i), h, transport.HookPriorityCritical)
		}
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = o.config.HTTPClient()
	}

	return transport.NewHTTP(
		transport.WithClient(httpClient),
		transport.WithMaxResponseSize(o.config.MaxResponseSize),
		transport.WithHooks(chain),
		transport.WithTransportLogger(logger),
	)
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() *config.Config {
	return c.config.Clone()
}

// Dispatcher returns the underlying dispatcher.
func (c *Client) Dispatcher() *dispatcher.Dispatcher {
	return c.dispatcher
}

// Transport returns the transport requests are sent through.
func (c *Client) Transport() transport.Transport {
	return c.transport
}

// Close stops the client from accepting requests and waits for in-flight
// ones to deliver their result, or for ctx to end. Requests started after
// Close fail with a Request error wrapping lifecycle.ErrClosed. If ctx ends
// first, a later Close waits for the remaining requests again.
func (c *Client) Close(ctx context.Context) error {
	return c.lifecycle.Shutdown(ctx)
}

// Stats returns the client's lifecycle statistics.
func (c *Client) Stats() lifecycle.Stats {
	return c.lifecycle.Stats()
}

// track reserves a lifecycle slot and wraps completion so the slot is
// released before the result is handed over. It reports false, having
// already completed with the rejection, when the client is closed.
func track[T any](c *Client, completion func(Result[T])) (func(Result[T]), bool) {
	release, err := c.lifecycle.Acquire()
	if err != nil {
		completion(Result[T]{Err: pkgerrors.NewRequestError(err)})
		return nil, false
	}
	return func(r Result[T]) {
		release()
		completion(r)
	}, true
}

// Perform sends desc and delivers the raw body of a successful response to
// completion, exactly once.
func (c *Client) Perform(ctx context.Context, desc Descriptor, completion func(Result[[]byte])) {
	if done, ok := track(c, completion); ok {
		c.dispatcher.Perform(ctx, desc, done)
	}
}

// PerformURL sends a bare GET to rawURL and delivers the raw body of a
// successful response to completion, exactly once.
func (c *Client) PerformURL(ctx context.Context, rawURL string, completion func(Result[[]byte])) {
	if done, ok := track(c, completion); ok {
		c.dispatcher.PerformURL(ctx, rawURL, done)
	}
}

// FetchURL is the blocking form of PerformURL. If ctx ends first it returns
// a Request error wrapping ctx.Err().
func (c *Client) FetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	ch := make(chan Result[[]byte], 1)
	c.PerformURL(ctx, rawURL, func(r Result[[]byte]) { ch <- r })
	return await(ctx, ch)
}

// Send is the blocking form of Perform. If ctx ends first it returns a
// Request error wrapping ctx.Err().
func (c *Client) Send(ctx context.Context, desc Descriptor) ([]byte, error) {
	ch := make(chan Result[[]byte], 1)
	c.Perform(ctx, desc, func(r Result[[]byte]) { ch <- r })
	return await(ctx, ch)
}

// Execute sends desc and delivers the response decoded into T to
// completion, exactly once.
func Execute[T any](ctx context.Context, c *Client, desc Descriptor, completion func(Result[T])) {
	if done, ok := track(c, completion); ok {
		dispatcher.Execute(ctx, c.dispatcher, desc, done)
	}
}

// Fetch sends desc and returns the response decoded into T. Fetch[[]byte]
// returns the raw body. If ctx ends first it returns a Request error
// wrapping ctx.Err().
func Fetch[T any](ctx context.Context, c *Client, desc Descriptor) (T, error) {
	ch := make(chan Result[T], 1)
	Execute(ctx, c, desc, func(r Result[T]) { ch <- r })
	return await(ctx, ch)
}

func await[T any](ctx context.Context, ch <-chan Result[T]) (T, error) {
	select {
	case r := <-ch:
		return r.Value, r.Err
	case <-ctx.Done():
		var zero T
		return zero, pkgerrors.NewRequestError(ctx.Err())
	}
}
