// Package netreqtest provides testing utilities for code that uses netreq.
//
// # Mock Transport
//
// Use MockTransport to script an outcome without any network I/O:
//
//	tr := netreqtest.NewMockTransport().Respond(200, []byte(`{"id":1}`))
//	client, _ := netreq.New(netreq.WithTransport(tr))
//	// ... use client ...
//
//	if tr.CallCount() != 1 {
//	    t.Error("expected 1 call")
//	}
//
// # Mock Server
//
// Use MockServer to record real HTTP requests:
//
//	server := netreqtest.NewMockServer()
//	defer server.Close()
//	server.RespondWith(http.StatusNotFound, map[string]string{"error": "missing"})
//
//	_, err := client.Send(ctx, netreq.NewGET(server.URL+"/users/1", nil))
//	// err is a SerializedError carrying the JSON body
//
// # Test Client
//
// NewTestClient returns a client wired to a mock server, closed when the
// test ends:
//
//	func TestMyFeature(t *testing.T) {
//	    client, server := netreqtest.NewTestClient(t)
//	    // ...
//	    if server.RequestCount() != 1 {
//	        t.Error("expected 1 request")
//	    }
//	}
//
// # Stubs
//
// StubEncoder, StubDecoder and StubSerializer fail or succeed on demand.
// BuilderSpy wraps a builder and records the descriptors it was given.
//
// # Mock Metrics and Logger
//
// MockMetrics and MockLogger capture everything they receive for later
// assertions.
package netreqtest
