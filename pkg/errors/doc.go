// Package errors defines the closed error taxonomy produced by the request
// builder and the dispatcher.
//
// Every failure delivered to a caller is an *Error. Its Kind tells the caller
// which branch of request construction or response classification failed:
//
//   - KindUnknown: the server answered with a status outside 2xx and 4xx
//   - KindNetworkUnavailable: the transport reported that no network path exists
//   - KindInvalidHTTPResponse: the transport returned no HTTP-level response
//   - KindEmptyData: the response carried no body
//   - KindSerializedError: 4xx response; Data and StatusCode hold the raw payload
//   - KindRequest: the request could not be built or the transport failed
//   - KindParameterEncodingFailed: request parameters could not be encoded; see Reason
//   - KindResponseSerializationFailed: a 2xx body could not be decoded
//
// # Matching
//
// Use errors.Is with the sentinel values to match on kind:
//
//	if stdErrors.Is(err, errors.ErrNetworkUnavailable) {
//	    // ask the user to check connectivity
//	}
//
// Use AsError to inspect the payload:
//
//	if e, ok := errors.AsError(err); ok && e.Kind == errors.KindSerializedError {
//	    log.Printf("server said %d: %s", e.StatusCode, e.Data)
//	}
//
// # Equality
//
// Equal compares two values structurally: same kind, equal payload, and
// equal inner causes. Inner causes without structural equality are compared
// through their (domain, code) identity when they implement CodedError.
package errors
