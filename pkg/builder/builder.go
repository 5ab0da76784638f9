// Package builder turns request descriptors into transport-ready requests.
package builder

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jdziat/netreq/pkg/codec"
	pkgerrors "github.com/jdziat/netreq/pkg/errors"
	"github.com/jdziat/netreq/pkg/request"
)

// ContentTypeJSON is the content type injected for JSON bodies.
const ContentTypeJSON = "application/json"

// Request is a fully resolved request ready for a transport.
type Request struct {
	// URL is the resolved URL, query items included.
	URL *url.URL

	// Method is the request method.
	Method string

	// Header holds the final headers.
	Header http.Header

	// Body is the serialized body, nil when the request has none.
	Body []byte
}

// HTTPRequest converts r into an *http.Request bound to ctx. The returned
// request can replay its body through GetBody.
func (r *Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header = r.Header.Clone()
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	return req, nil
}

// Builder converts descriptors into requests.
type Builder interface {
	// Build resolves desc. It never touches the network.
	Build(desc request.Descriptor) (*Request, error)
}

// Option configures the default builder.
type Option func(*builder)

// WithEncoder sets the encoder used for JSON parameters.
func WithEncoder(enc codec.Encoder) Option {
	return func(b *builder) {
		b.encoder = enc
	}
}

// WithSerializer sets the serializer used for body parameters.
func WithSerializer(s codec.Serializer) Option {
	return func(b *builder) {
		b.serializer = s
	}
}

type builder struct {
	encoder    codec.Encoder
	serializer codec.Serializer
}

// New returns the default Builder. Without options it encodes with
// codec.JSON.
func New(opts ...Option) Builder {
	b := &builder{
		encoder:    codec.JSON{},
		serializer: codec.JSON{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build implements Builder.
func (b *builder) Build(desc request.Descriptor) (*Request, error) {
	u, err := ParseURL(desc.URL)
	if err != nil {
		return nil, err
	}

	req := &Request{
		URL:    u,
		Method: desc.EffectiveMethod().String(),
		Header: make(http.Header, len(desc.Headers)),
	}
	for key, value := range desc.Headers {
		req.Header.Set(key, value)
	}

	params := desc.Parameters
	switch params.Kind() {
	case request.KindQueryItems:
		appendQueryItems(req.URL, params.Query())
	case request.KindJSON:
		if err := b.buildJSON(req, params.Model(), desc.Headers); err != nil {
			return nil, err
		}
	case request.KindBody:
		if err := b.buildBody(req, params.Fields(), desc.Headers); err != nil {
			return nil, err
		}
	}

	return req, nil
}

// ParseURL parses raw as an absolute URL. It fails with a
// ParameterEncodingFailed(MissingURL) error otherwise.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil || raw == "" || !u.IsAbs() {
		return nil, pkgerrors.NewParameterEncodingFailed(pkgerrors.MissingURL())
	}
	return u, nil
}

// appendQueryItems appends items to the existing query of u. Keys are
// emitted in sorted order. Opaque URLs have no query component and are left
// untouched.
func appendQueryItems(u *url.URL, items map[string]string) {
	if u.Opaque != "" || len(items) == 0 {
		return
	}
	values := make(url.Values, len(items))
	for key, value := range items {
		values.Set(key, value)
	}
	encoded := values.Encode()
	if u.RawQuery == "" {
		u.RawQuery = encoded
		return
	}
	u.RawQuery = u.RawQuery + "&" + encoded
}

func (b *builder) buildJSON(req *Request, model any, headers map[string]string) error {
	body, err := b.encoder.Encode(model)
	if err != nil {
		return pkgerrors.NewParameterEncodingFailed(pkgerrors.CustomEncodingFailed(err))
	}
	req.Body = body
	setContentTypeIfNeeded(req, headers)
	return nil
}

func (b *builder) buildBody(req *Request, fields map[string]any, headers map[string]string) error {
	if !b.serializer.IsValidJSONObject(fields) {
		return pkgerrors.NewParameterEncodingFailed(pkgerrors.InvalidJSONObject())
	}
	body, err := b.serializer.Marshal(fields)
	if err != nil {
		return pkgerrors.NewParameterEncodingFailed(pkgerrors.JSONEncodingFailed(err))
	}
	req.Body = body
	setContentTypeIfNeeded(req, headers)
	return nil
}

// setContentTypeIfNeeded injects the JSON content type unless the caller
// supplied a Content-Type header under any casing.
func setContentTypeIfNeeded(req *Request, headers map[string]string) {
	for key := range headers {
		if strings.EqualFold(key, "Content-Type") {
			return
		}
	}
	req.Header.Set("Content-Type", ContentTypeJSON)
}
