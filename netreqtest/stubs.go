package netreqtest

import (
	"sync"

	"github.com/jdziat/netreq/pkg/builder"
	"github.com/jdziat/netreq/pkg/codec"
	"github.com/jdziat/netreq/pkg/request"
)

var (
	_ codec.Encoder    = StubEncoder{}
	_ codec.Decoder    = StubDecoder{}
	_ codec.Serializer = StubSerializer{}
	_ builder.Builder  = (*BuilderSpy)(nil)
)

// StubEncoder returns Err when set, otherwise Data.
type StubEncoder struct {
	Data []byte
	Err  error
}

// Encode implements codec.Encoder.
func (s StubEncoder) Encode(v any) ([]byte, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Data, nil
}

// StubDecoder returns Err when set and otherwise leaves v untouched.
type StubDecoder struct {
	Err error
}

// Decode implements codec.Decoder.
func (s StubDecoder) Decode(data []byte, v any) error {
	return s.Err
}

// StubSerializer reports Valid from IsValidJSONObject and returns Err from
// Marshal when set, otherwise Data.
type StubSerializer struct {
	Valid bool
	Data  []byte
	Err   error
}

// IsValidJSONObject implements codec.Serializer.
func (s StubSerializer) IsValidJSONObject(v any) bool {
	return s.Valid
}

// Marshal implements codec.Serializer.
func (s StubSerializer) Marshal(v any) ([]byte, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Data, nil
}

// BuilderSpy records descriptors and delegates to Next, or to builder.New()
// when Next is nil. When Err is set it is returned instead.
type BuilderSpy struct {
	Next builder.Builder
	Err  error

	mu    sync.Mutex
	descs []request.Descriptor
}

// Build implements builder.Builder.
func (s *BuilderSpy) Build(desc request.Descriptor) (*builder.Request, error) {
	s.mu.Lock()
	s.descs = append(s.descs, desc)
	next := s.Next
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	if next == nil {
		next = builder.New()
	}
	return next.Build(desc)
}

// Descriptors returns the descriptors passed to Build.
func (s *BuilderSpy) Descriptors() []request.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]request.Descriptor{}, s.descs...)
}
