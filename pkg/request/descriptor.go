// Package request describes HTTP requests declaratively.
//
// A Descriptor is a plain value: the URL, the method, the headers and how
// parameters travel (query string, JSON model, JSON object body, or nothing).
// The builder package turns it into a transport-ready request.
package request

import "maps"

// Method is an HTTP request method.
type Method string

// Supported methods.
const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// String returns the method name.
func (m Method) String() string {
	return string(m)
}

// ParameterKind identifies how request parameters are carried.
type ParameterKind int

const (
	// KindPlain carries no parameters.
	KindPlain ParameterKind = iota
	// KindQueryItems appends parameters to the URL query.
	KindQueryItems
	// KindJSON encodes an arbitrary value as the JSON body.
	KindJSON
	// KindBody serializes a JSON object map as the body.
	KindBody
)

// String returns a string representation of the parameter kind.
func (k ParameterKind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindQueryItems:
		return "query_items"
	case KindJSON:
		return "json"
	case KindBody:
		return "body"
	default:
		return "unknown"
	}
}

// Parameters is the parameter mode of a Descriptor. The zero value is Plain.
// Build values with QueryItems, JSON, Body or Plain.
type Parameters struct {
	kind  ParameterKind
	query map[string]string
	model any
	body  map[string]any
}

// Plain returns parameters that add nothing to the request.
func Plain() Parameters {
	return Parameters{kind: KindPlain}
}

// QueryItems returns parameters appended to the URL query.
// The map is copied.
func QueryItems(items map[string]string) Parameters {
	return Parameters{kind: KindQueryItems, query: maps.Clone(items)}
}

// JSON returns parameters that encode model as the JSON request body.
func JSON(model any) Parameters {
	return Parameters{kind: KindJSON, model: model}
}

// Body returns parameters that serialize fields as a JSON object body.
// The top-level map is copied.
func Body(fields map[string]any) Parameters {
	return Parameters{kind: KindBody, body: maps.Clone(fields)}
}

// Kind returns the parameter mode.
func (p Parameters) Kind() ParameterKind {
	return p.kind
}

// Query returns a copy of the query items of a KindQueryItems value.
func (p Parameters) Query() map[string]string {
	return maps.Clone(p.query)
}

// Model returns the value of a KindJSON value.
func (p Parameters) Model() any {
	return p.model
}

// Fields returns a copy of the top-level fields of a KindBody value.
func (p Parameters) Fields() map[string]any {
	return maps.Clone(p.body)
}

// Descriptor describes one logical HTTP request.
//
// The zero value is invalid. URL is MANDATORY; Method defaults to GET when
// empty.
type Descriptor struct {
	// URL is the MANDATORY absolute request URL.
	URL string

	// Method is the OPTIONAL request method. Empty means GET.
	Method Method

	// Headers are the OPTIONAL request headers. They always win over
	// headers the builder would add.
	Headers map[string]string

	// Parameters is the OPTIONAL parameter mode. The zero value is Plain.
	Parameters Parameters
}

// EffectiveMethod returns Method, or GET when Method is empty.
func (d Descriptor) EffectiveMethod() Method {
	if d.Method == "" {
		return MethodGet
	}
	return d.Method
}

// WithHeader returns a copy of d with the header key set to value.
func (d Descriptor) WithHeader(key, value string) Descriptor {
	headers := make(map[string]string, len(d.Headers)+1)
	maps.Copy(headers, d.Headers)
	headers[key] = value
	d.Headers = headers
	return d
}

// NewGET is a convenience factory for a GET descriptor with query items.
// A nil or empty query yields Plain parameters.
func NewGET(url string, query map[string]string) Descriptor {
	params := Plain()
	if len(query) > 0 {
		params = QueryItems(query)
	}
	return Descriptor{URL: url, Method: MethodGet, Parameters: params}
}

// NewPOSTJSON is a convenience factory for a POST descriptor whose body is
// model encoded as JSON.
func NewPOSTJSON(url string, model any) Descriptor {
	return Descriptor{URL: url, Method: MethodPost, Parameters: JSON(model)}
}

// NewPOSTBody is a convenience factory for a POST descriptor whose body is
// the JSON object fields.
func NewPOSTBody(url string, fields map[string]any) Descriptor {
	return Descriptor{URL: url, Method: MethodPost, Parameters: Body(fields)}
}
