// Package transport defines the port through which built requests reach the
// network, and ships the default net/http implementation.
//
// A Transport must invoke the Completion exactly once per call, on any
// goroutine. The three completion arguments describe what happened:
//
//   - err != nil: the request did not produce a usable response
//   - resp != nil: an HTTP-level response was received
//   - body: the response payload, possibly empty
package transport

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jdziat/netreq/pkg/builder"
)

// Response is the HTTP-level metadata of a completed exchange.
type Response struct {
	StatusCode int
	Header     http.Header
}

// Completion receives the outcome of a transport call.
type Completion func(body []byte, resp *Response, err error)

// Transport performs requests asynchronously.
type Transport interface {
	// Perform sends req and reports the outcome to done.
	Perform(ctx context.Context, req *builder.Request, done Completion)

	// PerformURL sends a bare GET to u and reports the outcome to done.
	PerformURL(ctx context.Context, u *url.URL, done Completion)
}

// Func adapts a single function to Transport. PerformURL is forwarded as a
// bodiless GET request.
type Func func(ctx context.Context, req *builder.Request, done Completion)

// Perform implements Transport.
func (f Func) Perform(ctx context.Context, req *builder.Request, done Completion) {
	f(ctx, req, done)
}

// PerformURL implements Transport.
func (f Func) PerformURL(ctx context.Context, u *url.URL, done Completion) {
	f(ctx, &builder.Request{URL: u, Method: http.MethodGet, Header: make(http.Header)}, done)
}

var _ Transport = Func(nil)
