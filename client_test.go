package netreq_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/jdziat/netreq"
	"github.com/jdziat/netreq/netreqtest"
	"github.com/jdziat/netreq/pkg/config"
	"github.com/jdziat/netreq/pkg/transport"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestNew_Defaults(t *testing.T) {
	client, err := netreq.New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	cfg := client.Config()
	if cfg.UserAgent == "" {
		t.Error("UserAgent is empty")
	}
	if cfg.Timeout != config.DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, config.DefaultTimeout)
	}
	if client.Dispatcher() == nil {
		t.Error("Dispatcher() = nil")
	}
	if _, ok := client.Transport().(*transport.HTTP); !ok {
		t.Errorf("Transport() = %T, want *transport.HTTP", client.Transport())
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		opts []netreq.Option
	}{
		{"zero timeout", []netreq.Option{netreq.WithTimeout(0)}},
		{"empty user agent", []netreq.Option{netreq.WithUserAgent("")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := netreq.New(tt.opts...)
			var verr *config.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("New() error = %v, want *config.ValidationError", err)
			}
		})
	}
}

func TestNewWithConfig(t *testing.T) {
	if _, err := netreq.NewWithConfig(nil); err == nil {
		t.Error("NewWithConfig(nil) error = nil")
	}

	cfg := config.Default()
	cfg.UserAgent = "custom/1.0"
	client, err := netreq.NewWithConfig(cfg, netreq.WithDebug(true))
	if err != nil {
		t.Fatalf("NewWithConfig() error = %v", err)
	}
	cfg.UserAgent = "mutated"

	got := client.Config()
	if got.UserAgent != "custom/1.0" {
		t.Errorf("UserAgent = %q, want custom/1.0", got.UserAgent)
	}
	if !got.Debug {
		t.Error("Debug = false, want true")
	}
}

func TestFetch_DecodesJSON(t *testing.T) {
	client, server := netreqtest.NewTestClient(t)
	server.RespondWith(http.StatusOK, item{ID: 1, Name: "first"})

	got, err := netreq.Fetch[item](context.Background(), client,
		netreq.NewGET(server.URL+"/items/1", map[string]string{"b": "2", "a": "1"}))
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if diff := cmp.Diff(item{ID: 1, Name: "first"}, got); diff != "" {
		t.Errorf("Fetch() mismatch (-want +got):\n%s", diff)
	}

	req := server.LastRequest()
	if req.Method != http.MethodGet {
		t.Errorf("Method = %q, want GET", req.Method)
	}
	if req.Query.Encode() != "a=1&b=2" {
		t.Errorf("Query = %q, want a=1&b=2", req.Query.Encode())
	}
	if req.Header.Get(transport.RequestIDHeader) == "" {
		t.Error("X-Request-ID not set")
	}
}

func TestSend_PostJSON(t *testing.T) {
	client, server := netreqtest.NewTestClientWithOptions(t,
		netreq.WithDefaultHeaders(map[string]string{"X-Tenant": "acme"}))
	server.RespondWith(http.StatusCreated, []byte(`{"id":2}`))

	ctx := transport.WithRequestID(context.Background(), "req-42")
	body, err := client.Send(ctx, netreq.NewPOSTJSON(server.URL+"/items", item{Name: "second"}))
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if string(body) != `{"id":2}` {
		t.Errorf("body = %q", body)
	}

	req := server.LastRequest()
	if req.ContentType != "application/json" {
		t.Errorf("Content-Type = %q", req.ContentType)
	}
	if string(req.Body) != `{"id":0,"name":"second"}` {
		t.Errorf("request body = %q", req.Body)
	}
	if got := req.Header.Get("X-Tenant"); got != "acme" {
		t.Errorf("X-Tenant = %q, want acme", got)
	}
	if got := req.Header.Get(transport.RequestIDHeader); got != "req-42" {
		t.Errorf("X-Request-ID = %q, want req-42", got)
	}
}

func TestSend_ClassifiesStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		wantKind netreq.ErrorKind
	}{
		{"not found", http.StatusNotFound, []byte(`{"error":"missing"}`), netreq.KindSerializedError},
		{"teapot", http.StatusTeapot, "short and stout", netreq.KindSerializedError},
		{"server error", http.StatusInternalServerError, []byte("oops"), netreq.KindUnknown},
		{"not modified", http.StatusNotModified, nil, netreq.KindEmptyData},
		{"empty 200", http.StatusOK, nil, netreq.KindEmptyData},
		{"empty 404", http.StatusNotFound, nil, netreq.KindEmptyData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := netreqtest.NewTestClient(t)
			server.RespondWith(tt.status, tt.body)

			_, err := client.Send(context.Background(), netreq.NewGET(server.URL, nil))
			if got := netreq.KindOf(err); got != tt.wantKind {
				t.Fatalf("KindOf(err) = %v, want %v (err = %v)", got, tt.wantKind, err)
			}
			if tt.wantKind != netreq.KindSerializedError {
				return
			}
			nerr, _ := netreq.AsError(err)
			if nerr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", nerr.StatusCode, tt.status)
			}
			want := tt.body
			if s, ok := want.(string); ok {
				want = []byte(s)
			}
			if diff := cmp.Diff(want, nerr.Data); diff != "" {
				t.Errorf("Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFetch_InvalidURL(t *testing.T) {
	tr := netreqtest.NewMockTransport().Respond(200, []byte("{}"))
	client, err := netreq.New(netreq.WithTransport(tr))
	if err != nil {
		t.Fatal(err)
	}

	for _, raw := range []string{"", "not a url", "/relative/path"} {
		_, err := netreq.Fetch[item](context.Background(), client, netreq.NewGET(raw, nil))
		if netreq.KindOf(err) != netreq.KindRequest {
			t.Errorf("Fetch(%q) kind = %v, want request", raw, netreq.KindOf(err))
		}
	}
	if tr.CallCount() != 0 {
		t.Errorf("transport called %d times, want 0", tr.CallCount())
	}
}

func TestFetch_BodyEncodingFailure(t *testing.T) {
	tr := netreqtest.NewMockTransport()
	client, _ := netreq.New(netreq.WithTransport(tr))

	desc := netreq.NewPOSTBody("https://example.com/x", map[string]any{"ch": make(chan int)})
	_, err := netreq.Fetch[item](context.Background(), client, desc)

	nerr, ok := netreq.AsError(err)
	if !ok || nerr.Kind != netreq.KindRequest {
		t.Fatalf("err = %v, want request error", err)
	}
	var inner *netreq.Error
	if !errors.As(nerr.Err, &inner) || inner.Kind != netreq.KindParameterEncodingFailed {
		t.Fatalf("inner = %v, want parameter encoding failure", nerr.Err)
	}
	if tr.CallCount() != 0 {
		t.Errorf("transport called %d times, want 0", tr.CallCount())
	}
}

func TestFetch_TransportFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind netreq.ErrorKind
	}{
		{"offline errno", syscall.ENETUNREACH, netreq.KindNetworkUnavailable},
		{"offline code", &transport.Error{Code: transport.CodeNotConnectedToInternet, Op: "send"}, netreq.KindNetworkUnavailable},
		{"refused", transport.NewError("send", syscall.ECONNREFUSED), netreq.KindRequest},
		{"other", errors.New("tls handshake failure"), netreq.KindRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := netreqtest.NewMockTransport().Fail(tt.err)
			client, _ := netreq.New(netreq.WithTransport(tr))

			_, err := netreq.Fetch[item](context.Background(), client, netreq.NewGET("https://example.com", nil))
			if got := netreq.KindOf(err); got != tt.wantKind {
				t.Errorf("KindOf(err) = %v, want %v", got, tt.wantKind)
			}
			if tt.wantKind == netreq.KindNetworkUnavailable && !errors.Is(err, netreq.ErrNetworkUnavailable) {
				t.Error("errors.Is(err, ErrNetworkUnavailable) = false")
			}
		})
	}
}

func TestFetch_NoResponse(t *testing.T) {
	tr := netreqtest.NewMockTransport().Outcome([]byte("data"), nil, nil)
	client, _ := netreq.New(netreq.WithTransport(tr))

	_, err := client.FetchURL(context.Background(), "https://example.com")
	if !errors.Is(err, netreq.ErrInvalidHTTPResponse) {
		t.Errorf("err = %v, want InvalidHTTPResponse", err)
	}
}

func TestFetch_CustomDecoder(t *testing.T) {
	boom := errors.New("decoder exploded")
	tr := netreqtest.NewMockTransport().Respond(200, []byte(`{"id":1}`))
	client, _ := netreq.New(netreq.WithTransport(tr), netreq.WithDecoder(netreqtest.StubDecoder{Err: boom}))

	got, err := netreq.Fetch[item](context.Background(), client, netreq.NewGET("https://example.com", nil))
	if netreq.KindOf(err) != netreq.KindResponseSerializationFailed {
		t.Fatalf("KindOf(err) = %v, want response_serialization_failed", netreq.KindOf(err))
	}
	if !errors.Is(err, boom) {
		t.Error("decoder error not in chain")
	}
	if got != (item{}) {
		t.Errorf("value = %+v, want zero", got)
	}

	raw, err := netreq.Fetch[[]byte](context.Background(), client, netreq.NewGET("https://example.com", nil))
	if err != nil || string(raw) != `{"id":1}` {
		t.Errorf("Fetch[[]byte] = %q, %v", raw, err)
	}
}

func TestWithBuilder(t *testing.T) {
	spy := &netreqtest.BuilderSpy{}
	tr := netreqtest.NewMockTransport().Respond(200, []byte(`{}`))
	client, _ := netreq.New(netreq.WithTransport(tr), netreq.WithBuilder(spy))

	desc := netreq.NewGET("https://example.com/spy", nil).WithHeader("Accept", "application/json")
	if _, err := client.Send(context.Background(), desc); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if diff := cmp.Diff([]netreq.Descriptor{desc}, spy.Descriptors(), cmp.AllowUnexported(netreq.Parameters{})); diff != "" {
		t.Errorf("descriptors mismatch (-want +got):\n%s", diff)
	}
	if got := tr.LastRequest().Header.Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q", got)
	}
}

func TestWithHooks_CriticalFailureAborts(t *testing.T) {
	denied := errors.New("denied")
	client, server := netreqtest.NewTestClientWithOptions(t,
		netreq.WithHooks(transport.HTTPHookFunc{
			Before: func(ctx context.Context, req *http.Request) error { return denied },
		}))

	_, err := client.FetchURL(context.Background(), server.URL)
	if netreq.KindOf(err) != netreq.KindRequest {
		t.Fatalf("KindOf(err) = %v, want request", netreq.KindOf(err))
	}
	if !errors.Is(err, denied) {
		t.Error("hook error not in chain")
	}
	if server.RequestCount() != 0 {
		t.Errorf("server saw %d requests, want 0", server.RequestCount())
	}
}

func TestWithLogger_Debug(t *testing.T) {
	logger := netreqtest.NewMockLogger()
	client, server := netreqtest.NewTestClientWithOptions(t,
		netreq.WithLogger(logger), netreq.WithDebug(true))
	server.RespondWith(200, []byte("ok"))

	desc := netreq.NewGET(server.URL, nil).WithHeader("Authorization", "Bearer secret-token")
	if _, err := client.Send(context.Background(), desc); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(logger.EntriesAt("debug")) == 0 {
		t.Fatal("no debug entries logged")
	}
	for _, e := range logger.Entries {
		for _, a := range e.Args {
			if s, ok := a.(string); ok && strings.Contains(s, "secret-token") {
				t.Errorf("log entry %q leaks the token", e.Message)
			}
		}
	}
}

func TestWithMetrics(t *testing.T) {
	m := netreqtest.NewMockMetrics()
	client, server := netreqtest.NewTestClientWithOptions(t, netreq.WithMetrics(m))
	server.RespondWith(404, []byte("missing"))

	_, _ = client.FetchURL(context.Background(), server.URL)
	server.RespondWith(200, []byte("ok"))
	_, _ = client.FetchURL(context.Background(), server.URL)

	want := map[string]int64{
		"netreq.results.serialized_error": 1,
		"netreq.results.success":          1,
		"netreq.http.requests":            2,
		"netreq.http.status.404":          1,
		"netreq.http.status.200":          1,
	}
	for name, v := range want {
		if got := m.GetCounter(name); got != v {
			t.Errorf("counter %s = %d, want %d", name, got, v)
		}
	}
	if n := len(m.GetTimings("netreq.http.duration")); n != 2 {
		t.Errorf("duration samples = %d, want 2", n)
	}
}

func TestExecute_CompletesOnce(t *testing.T) {
	tr := netreqtest.NewMockTransport().Respond(200, []byte(`{"id":3}`)).Duplicate(2).Async()
	logger := netreqtest.NewMockLogger()
	client, _ := netreq.New(netreq.WithTransport(tr), netreq.WithLogger(logger))

	results := make(chan netreq.Result[item], 3)
	netreq.Execute(context.Background(), client, netreq.NewGET("https://example.com", nil), func(r netreq.Result[item]) {
		results <- r
	})
	tr.Wait()
	close(results)

	var got []netreq.Result[item]
	for r := range results {
		got = append(got, r)
	}
	if len(got) != 1 {
		t.Fatalf("completions = %d, want 1", len(got))
	}
	if got[0].Err != nil || got[0].Value.ID != 3 {
		t.Errorf("result = %+v", got[0])
	}
	if n := len(logger.EntriesAt("warn")); n != 2 {
		t.Errorf("warnings = %d, want 2", n)
	}
}

func TestFetch_ContextCanceled(t *testing.T) {
	client, server := netreqtest.NewTestClient(t)
	server.SetResponseFunc(func(r *http.Request) (int, any) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		return 200, []byte("late")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.FetchURL(ctx, server.URL)
	if netreq.KindOf(err) != netreq.KindRequest {
		t.Fatalf("KindOf(err) = %v, want request", netreq.KindOf(err))
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded in chain", err)
	}
}

func TestClose(t *testing.T) {
	m := netreqtest.NewMockMetrics()
	tr := netreqtest.NewMockTransport().Respond(200, []byte(`{"id":1}`))
	client, _ := netreq.New(netreq.WithTransport(tr), netreq.WithMetrics(m))

	if _, err := client.Send(context.Background(), netreq.NewGET("https://example.com", nil)); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if err := client.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	_, err := client.Send(context.Background(), netreq.NewGET("https://example.com", nil))
	if netreq.KindOf(err) != netreq.KindRequest || !errors.Is(err, netreq.ErrClientClosed) {
		t.Errorf("Send() after Close error = %v, want request error wrapping ErrClientClosed", err)
	}
	if tr.CallCount() != 1 {
		t.Errorf("transport calls = %d, want 1", tr.CallCount())
	}

	stats := client.Stats()
	if stats.Completed != 1 || stats.Inflight != 0 {
		t.Errorf("Stats = %+v, want 1 completed and none in flight", stats)
	}
	if got := m.GetCounter("netreq.client.rejected"); got != 1 {
		t.Errorf("rejected counter = %d, want 1", got)
	}
}
