package netreqtest

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/jdziat/netreq/pkg/builder"
	"github.com/jdziat/netreq/pkg/transport"
)

var _ transport.Transport = (*MockTransport)(nil)

// MockTransport is a scripted transport. Every call completes with the same
// configured outcome and is recorded.
//
// The zero outcome is (nil, nil, nil), which a dispatcher classifies as
// InvalidHTTPResponse.
type MockTransport struct {
	mu       sync.Mutex
	body     []byte
	resp     *transport.Response
	err      error
	async    bool
	extra    int
	calls    []*builder.Request
	urlCalls []*url.URL
	wg       sync.WaitGroup
}

// NewMockTransport creates a transport with no outcome configured.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Respond makes calls complete with an HTTP response of status carrying body.
func (m *MockTransport) Respond(status int, body []byte) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.body = body
	m.resp = &transport.Response{StatusCode: status, Header: make(http.Header)}
	m.err = nil
	return m
}

// Fail makes calls complete with err and no response.
func (m *MockTransport) Fail(err error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.body = nil
	m.resp = nil
	m.err = err
	return m
}

// Outcome sets the raw completion arguments.
func (m *MockTransport) Outcome(body []byte, resp *transport.Response, err error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.body, m.resp, m.err = body, resp, err
	return m
}

// Async makes calls complete on a new goroutine. Use Wait to join them.
func (m *MockTransport) Async() *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.async = true
	return m
}

// Duplicate makes every call invoke its completion n extra times, which a
// well-behaved transport never does.
func (m *MockTransport) Duplicate(n int) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extra = n
	return m
}

// Perform implements transport.Transport.
func (m *MockTransport) Perform(ctx context.Context, req *builder.Request, done transport.Completion) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	m.complete(done)
}

// PerformURL implements transport.Transport.
func (m *MockTransport) PerformURL(ctx context.Context, u *url.URL, done transport.Completion) {
	m.mu.Lock()
	m.urlCalls = append(m.urlCalls, u)
	m.mu.Unlock()
	m.complete(done)
}

func (m *MockTransport) complete(done transport.Completion) {
	m.mu.Lock()
	body, resp, err, async, extra := m.body, m.resp, m.err, m.async, m.extra
	m.mu.Unlock()

	run := func() {
		for i := 0; i <= extra; i++ {
			done(body, resp, err)
		}
	}
	if !async {
		run()
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		run()
	}()
}

// Wait blocks until every asynchronous completion has returned.
func (m *MockTransport) Wait() {
	m.wg.Wait()
}

// Calls returns the requests passed to Perform.
func (m *MockTransport) Calls() []*builder.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*builder.Request{}, m.calls...)
}

// URLCalls returns the URLs passed to PerformURL.
func (m *MockTransport) URLCalls() []*url.URL {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*url.URL{}, m.urlCalls...)
}

// CallCount returns the total number of Perform and PerformURL calls.
func (m *MockTransport) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls) + len(m.urlCalls)
}

// LastRequest returns the most recent Perform request, or nil if none.
func (m *MockTransport) LastRequest() *builder.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

// Reset clears recorded calls. The configured outcome is kept.
func (m *MockTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.urlCalls = nil
}
