package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jdziat/netreq/pkg/builder"
	"github.com/jdziat/netreq/pkg/logging"
)

// DefaultMaxResponseSize bounds response bodies read by HTTP.
const DefaultMaxResponseSize = 10 * 1024 * 1024 // 10MB

// ErrResponseTooLarge is wrapped by the transport error reported when a
// response body exceeds the configured limit.
var ErrResponseTooLarge = errors.New("netreq: response body too large")

// HTTP is a Transport backed by an *http.Client. Each call runs on its own
// goroutine, which ends once the completion has returned.
type HTTP struct {
	client          *http.Client
	maxResponseSize int64
	hook            HTTPHook
	logger          logging.StructuredLogger
}

// HTTPOption configures an HTTP transport.
type HTTPOption func(*HTTP)

// WithClient sets the underlying client. Timeouts, redirects and connection
// pooling are all taken from it.
func WithClient(c *http.Client) HTTPOption {
	return func(t *HTTP) {
		if c != nil {
			t.client = c
		}
	}
}

// WithMaxResponseSize bounds the response body size. Values <= 0 select
// DefaultMaxResponseSize.
func WithMaxResponseSize(n int64) HTTPOption {
	return func(t *HTTP) {
		t.maxResponseSize = n
	}
}

// WithHooks appends hooks. They run in the order given.
func WithHooks(hooks ...HTTPHook) HTTPOption {
	return func(t *HTTP) {
		t.hook = CombineHooks(append([]HTTPHook{t.hook}, hooks...)...)
	}
}

// WithTransportLogger sets the logger used for transport diagnostics.
func WithTransportLogger(l logging.StructuredLogger) HTTPOption {
	return func(t *HTTP) {
		t.logger = logging.OrNop(l)
	}
}

// NewHTTP returns an HTTP transport. Without options it uses
// http.DefaultClient.
func NewHTTP(opts ...HTTPOption) *HTTP {
	t := &HTTP{
		client: http.DefaultClient,
		logger: logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.maxResponseSize <= 0 {
		t.maxResponseSize = DefaultMaxResponseSize
	}
	return t
}

// Perform implements Transport.
func (t *HTTP) Perform(ctx context.Context, req *builder.Request, done Completion) {
	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		go done(nil, nil, NewError("prepare", err))
		return
	}
	go t.do(ctx, httpReq, done)
}

// PerformURL implements Transport.
func (t *HTTP) PerformURL(ctx context.Context, u *url.URL, done Completion) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		go done(nil, nil, NewError("prepare", err))
		return
	}
	go t.do(ctx, httpReq, done)
}

func (t *HTTP) do(ctx context.Context, req *http.Request, done Completion) {
	if t.hook != nil {
		if err := t.hook.BeforeRequest(ctx, req); err != nil {
			done(nil, nil, &Error{Code: CodeUnknown, Op: "hook", Err: err})
			return
		}
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		t.after(ctx, req, nil, start, err)
		done(nil, nil, NewError("do", err))
		return
	}

	body, err := t.readBody(req, resp)
	t.after(ctx, req, resp, start, err)
	if err != nil {
		done(nil, nil, err)
		return
	}

	done(body, &Response{StatusCode: resp.StatusCode, Header: resp.Header}, nil)
}

func (t *HTTP) after(ctx context.Context, req *http.Request, resp *http.Response, start time.Time, err error) {
	if t.hook != nil {
		t.hook.AfterResponse(ctx, req, resp, time.Since(start), err)
	}
}

// readBody reads and closes the response body, enforcing the size limit.
// resp.Request is not relied on; custom round trippers may leave it nil.
func (t *HTTP) readBody(req *http.Request, resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxResponseSize+1))
	if err != nil {
		return nil, NewError("read", err)
	}
	if int64(len(body)) > t.maxResponseSize {
		t.logger.Warn("response body exceeds limit", "limit", t.maxResponseSize, "url", req.URL.Redacted())
		return nil, &Error{
			Code: CodeDataLengthExceedsMaximum,
			Op:   "read",
			Err:  fmt.Errorf("%w: limit is %d bytes", ErrResponseTooLarge, t.maxResponseSize),
		}
	}
	return body, nil
}

var _ Transport = (*HTTP)(nil)
