package netreqtest

import (
	"github.com/jdziat/netreq"
)

// TestingT is an interface that matches *testing.T and *testing.B.
type TestingT interface {
	Fatalf(format string, args ...any)
	Cleanup(func())
	Helper()
}

// TestUserAgent is the User-Agent of test clients.
const TestUserAgent = "netreq-test"

// NewTestClient creates a client for testing together with the mock server
// it should talk to. The server is closed when the test ends.
func NewTestClient(t TestingT) (*netreq.Client, *MockServer) {
	t.Helper()
	return NewTestClientWithOptions(t)
}

// NewTestClientWithOptions is NewTestClient with extra options applied on
// top of the base ones.
func NewTestClientWithOptions(t TestingT, opts ...netreq.Option) (*netreq.Client, *MockServer) {
	t.Helper()

	server := NewMockServer()

	baseOpts := []netreq.Option{
		netreq.WithUserAgent(TestUserAgent),
		netreq.WithHTTPClient(server.Client()),
	}

	client, err := netreq.New(append(baseOpts, opts...)...)
	if err != nil {
		server.Close()
		t.Fatalf("Failed to create test client: %v", err)
	}

	t.Cleanup(server.Close)

	return client, server
}
