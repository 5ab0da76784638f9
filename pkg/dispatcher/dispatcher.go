// Package dispatcher executes request descriptors: it builds them, hands them
// to a transport, classifies the outcome and delivers exactly one Result.
package dispatcher

import (
	"context"
	"sync"

	"github.com/jdziat/netreq/pkg/builder"
	"github.com/jdziat/netreq/pkg/codec"
	pkgerrors "github.com/jdziat/netreq/pkg/errors"
	"github.com/jdziat/netreq/pkg/logging"
	"github.com/jdziat/netreq/pkg/request"
	"github.com/jdziat/netreq/pkg/transport"
)

// Result carries either a value or an error. Err is nil on success and a
// *errors.Error otherwise.
type Result[T any] struct {
	Value T
	Err   error
}

// Dispatcher runs requests through a Builder, a Transport and a Decoder.
// It keeps no per-call state and is safe for concurrent use.
type Dispatcher struct {
	transport transport.Transport
	builder   builder.Builder
	decoder   codec.Decoder
	logger    logging.StructuredLogger
	metrics   Counter
}

// Counter receives one increment per delivered Result, named
// "netreq.results.success" or "netreq.results.<kind>".
type Counter interface {
	IncrementCounter(name string, value int64)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithBuilder sets the request builder. The default is builder.New().
func WithBuilder(b builder.Builder) Option {
	return func(d *Dispatcher) {
		if b != nil {
			d.builder = b
		}
	}
}

// WithDecoder sets the response decoder. The default is codec.JSON.
func WithDecoder(dec codec.Decoder) Option {
	return func(d *Dispatcher) {
		if dec != nil {
			d.decoder = dec
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.StructuredLogger) Option {
	return func(d *Dispatcher) {
		d.logger = logging.OrNop(l)
	}
}

// WithMetrics counts delivered results by outcome.
func WithMetrics(m Counter) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// New returns a Dispatcher sending requests through tr.
func New(tr transport.Transport, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		transport: tr,
		builder:   builder.New(),
		decoder:   codec.JSON{},
		logger:    logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Execute builds desc, sends it and decodes a successful response into T.
// completion is called exactly once, possibly on another goroutine.
//
// Build failures are reported as a Request error without contacting the
// transport.
func Execute[T any](ctx context.Context, d *Dispatcher, desc request.Descriptor, completion func(Result[T])) {
	req, ok := d.build(desc, func(err error) { completion(Result[T]{Err: err}) })
	if !ok {
		return
	}

	decoder, logger, metrics := d.decoder, d.logger, d.metrics
	d.transport.Perform(ctx, req, oneShot(logger, req.URL.Redacted(), func(body []byte, resp *transport.Response, err error) {
		data, cerr := classify(body, resp, err)
		if cerr != nil {
			logger.Debug("request classified", "url", req.URL.Redacted(), "kind", cerr.Kind, "error", cerr)
			count(metrics, cerr)
			completion(Result[T]{Err: cerr})
			return
		}
		r := decode[T](data, decoder, logger)
		count(metrics, r.Err)
		completion(r)
	}))
}

// Do is the blocking form of Execute. If ctx ends before the transport
// completes, Do returns a Request error wrapping ctx.Err().
func Do[T any](ctx context.Context, d *Dispatcher, desc request.Descriptor) (T, error) {
	ch := make(chan Result[T], 1)
	Execute(ctx, d, desc, func(r Result[T]) { ch <- r })
	return await(ctx, ch)
}

// Perform builds desc, sends it and delivers the raw body of a successful
// response.
func (d *Dispatcher) Perform(ctx context.Context, desc request.Descriptor, completion func(Result[[]byte])) {
	req, ok := d.build(desc, func(err error) { completion(Result[[]byte]{Err: err}) })
	if !ok {
		return
	}
	d.transport.Perform(ctx, req, d.rawCompletion(req.URL.Redacted(), completion))
}

// PerformURL sends a bare GET to rawURL, bypassing the builder, and
// delivers the raw body of any 2xx response. A rawURL that is not an
// absolute URL fails with Request(ParameterEncodingFailed(MissingURL))
// without contacting the transport.
func (d *Dispatcher) PerformURL(ctx context.Context, rawURL string, completion func(Result[[]byte])) {
	u, err := builder.ParseURL(rawURL)
	if err != nil {
		d.logger.Debug("request build failed", "url", rawURL, "error", err)
		rerr := pkgerrors.NewRequestError(err)
		count(d.metrics, rerr)
		completion(Result[[]byte]{Err: rerr})
		return
	}
	d.transport.PerformURL(ctx, u, d.rawCompletion(u.Redacted(), completion))
}

// FetchURL is the blocking form of PerformURL.
func (d *Dispatcher) FetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	ch := make(chan Result[[]byte], 1)
	d.PerformURL(ctx, rawURL, func(r Result[[]byte]) { ch <- r })
	return await(ctx, ch)
}

// Send is the blocking form of Perform.
func (d *Dispatcher) Send(ctx context.Context, desc request.Descriptor) ([]byte, error) {
	ch := make(chan Result[[]byte], 1)
	d.Perform(ctx, desc, func(r Result[[]byte]) { ch <- r })
	return await(ctx, ch)
}

func (d *Dispatcher) build(desc request.Descriptor, fail func(error)) (*builder.Request, bool) {
	req, err := d.builder.Build(desc)
	if err != nil {
		d.logger.Debug("request build failed", "url", desc.URL, "error", err)
		rerr := pkgerrors.NewRequestError(err)
		count(d.metrics, rerr)
		fail(rerr)
		return nil, false
	}
	return req, true
}

func (d *Dispatcher) rawCompletion(url string, completion func(Result[[]byte])) transport.Completion {
	logger, metrics := d.logger, d.metrics
	return oneShot(logger, url, func(body []byte, resp *transport.Response, err error) {
		data, cerr := classify(body, resp, err)
		if cerr != nil {
			logger.Debug("request classified", "url", url, "kind", cerr.Kind, "error", cerr)
			count(metrics, cerr)
			completion(Result[[]byte]{Err: cerr})
			return
		}
		count(metrics, nil)
		completion(Result[[]byte]{Value: data})
	})
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

// oneShot guards done so that only the first transport callback is
// delivered. Later callbacks are dropped with a warning.
func oneShot(logger logging.StructuredLogger, url string, done transport.Completion) transport.Completion {
	var once sync.Once
	return func(body []byte, resp *transport.Response, err error) {
		first := false
		once.Do(func() {
			first = true
			done(body, resp, err)
		})
		if !first {
			logger.Warn("duplicate transport completion ignored", "url", url)
		}
	}
}

func count(m Counter, err error) {
	if m == nil {
		return
	}
	if err == nil {
		m.IncrementCounter("netreq.results.success", 1)
		return
	}
	m.IncrementCounter("netreq.results."+pkgerrors.KindOf(err).String(), 1)
}
