package dispatcher

import (
	"github.com/jdziat/netreq/pkg/codec"
	pkgerrors "github.com/jdziat/netreq/pkg/errors"
	"github.com/jdziat/netreq/pkg/logging"
	"github.com/jdziat/netreq/pkg/transport"
)

// classify maps a transport outcome onto the error taxonomy. It returns the
// body on success. The order matters: transport error, missing response,
// empty body, then status.
func classify(body []byte, resp *transport.Response, err error) ([]byte, *pkgerrors.Error) {
	switch {
	case err != nil:
		if transport.IsNetworkUnavailable(err) {
			return nil, &pkgerrors.Error{Kind: pkgerrors.KindNetworkUnavailable}
		}
		return nil, pkgerrors.NewRequestError(err)
	case resp == nil:
		return nil, &pkgerrors.Error{Kind: pkgerrors.KindInvalidHTTPResponse}
	case len(body) == 0:
		return nil, &pkgerrors.Error{Kind: pkgerrors.KindEmptyData}
	}

	switch code := resp.StatusCode; {
	case code >= 400 && code <= 499:
		return nil, pkgerrors.NewSerializedError(body, code)
	case code >= 200 && code <= 299:
		return body, nil
	default:
		return nil, &pkgerrors.Error{Kind: pkgerrors.KindUnknown}
	}
}

// decode turns a successful body into a Result. A *[]byte target receives
// the raw bytes.
func decode[T any](body []byte, decoder codec.Decoder, logger logging.StructuredLogger) Result[T] {
	var value T
	if raw, ok := any(&value).(*[]byte); ok {
		*raw = body
		return Result[T]{Value: value}
	}
	if err := decoder.Decode(body, &value); err != nil {
		logger.Debug("response decoding failed", "bytes", len(body), "error", err)
		var zero T
		return Result[T]{Value: zero, Err: pkgerrors.NewResponseSerializationFailed(err)}
	}
	return Result[T]{Value: value}
}
