package errors

import (
	"errors"
	"fmt"
)

// Kind identifies a variant of the error taxonomy.
type Kind int

// Error kinds.
const (
	KindUnknown Kind = iota
	KindNetworkUnavailable
	KindInvalidHTTPResponse
	KindEmptyData
	KindSerializedError
	KindRequest
	KindParameterEncodingFailed
	KindResponseSerializationFailed
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindNetworkUnavailable:
		return "network_unavailable"
	case KindInvalidHTTPResponse:
		return "invalid_http_response"
	case KindEmptyData:
		return "empty_data"
	case KindSerializedError:
		return "serialized_error"
	case KindRequest:
		return "request"
	case KindParameterEncodingFailed:
		return "parameter_encoding_failed"
	case KindResponseSerializationFailed:
		return "response_serialization_failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrorCode represents a coarse category of error for metrics and logging.
type ErrorCode string

// Error codes for categorization.
const (
	ErrCodeNetwork    ErrorCode = "NETWORK"    // Transport and connectivity errors
	ErrCodeAPI        ErrorCode = "API"        // Unexpected or error HTTP responses
	ErrCodeValidation ErrorCode = "VALIDATION" // Request construction errors
	ErrCodeDecode     ErrorCode = "DECODE"     // Response decoding errors
	ErrCodeInternal   ErrorCode = "INTERNAL"   // Anything else
)

// Sentinel values for use with errors.Is(). They match on Kind only.
var (
	ErrUnknown             = &Error{Kind: KindUnknown}
	ErrNetworkUnavailable  = &Error{Kind: KindNetworkUnavailable}
	ErrInvalidHTTPResponse = &Error{Kind: KindInvalidHTTPResponse}
	ErrEmptyData           = &Error{Kind: KindEmptyData}
)

// Error is a value of the error taxonomy. Only the fields relevant to Kind
// are populated; use the constructors rather than building it by hand.
type Error struct {
	// Kind is the variant.
	Kind Kind

	// Data is the raw response body of a KindSerializedError.
	Data []byte

	// StatusCode is the HTTP status of a KindSerializedError.
	StatusCode int

	// Reason is set for KindParameterEncodingFailed.
	Reason *Reason

	// Err is the inner cause of KindRequest and KindResponseSerializationFailed.
	Err error
}

// NewSerializedError creates the error for a 4xx response carrying data.
func NewSerializedError(data []byte, statusCode int) *Error {
	return &Error{Kind: KindSerializedError, Data: data, StatusCode: statusCode}
}

// NewRequestError wraps a request construction or transport failure.
func NewRequestError(err error) *Error {
	return &Error{Kind: KindRequest, Err: err}
}

// NewParameterEncodingFailed creates the error for a parameter encoding failure.
func NewParameterEncodingFailed(reason *Reason) *Error {
	return &Error{Kind: KindParameterEncodingFailed, Reason: reason}
}

// NewResponseSerializationFailed wraps a response decoding failure.
func NewResponseSerializationFailed(err error) *Error {
	return &Error{Kind: KindResponseSerializationFailed, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindUnknown:
		return "netreq: unknown error"
	case KindNetworkUnavailable:
		return "netreq: network unavailable"
	case KindInvalidHTTPResponse:
		return "netreq: invalid HTTP response"
	case KindEmptyData:
		return "netreq: empty response data"
	case KindSerializedError:
		return fmt.Sprintf("netreq: server error (status %d, %d bytes)", e.StatusCode, len(e.Data))
	case KindRequest:
		return fmt.Sprintf("netreq: request failed: %v", e.Err)
	case KindParameterEncodingFailed:
		return fmt.Sprintf("netreq: parameter encoding failed: %v", e.Reason)
	case KindResponseSerializationFailed:
		return fmt.Sprintf("netreq: response serialization failed: %v", e.Err)
	default:
		return fmt.Sprintf("netreq: %s", e.Kind)
	}
}

// Unwrap returns the inner cause for error chain support.
func (e *Error) Unwrap() error {
	if e.Reason != nil && e.Reason.Err != nil {
		return e.Reason.Err
	}
	return e.Err
}

// Is implements error comparison for errors.Is().
// It matches on Kind, and on the reason kind when the target carries one:
//
//	if errors.Is(err, errors.ErrEmptyData) { ... }
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	if t.Reason != nil {
		return e.Reason != nil && e.Reason.Kind == t.Reason.Kind
	}
	return true
}

// Code returns the category of the error.
func (e *Error) Code() ErrorCode {
	switch e.Kind {
	case KindNetworkUnavailable, KindRequest:
		return ErrCodeNetwork
	case KindUnknown, KindInvalidHTTPResponse, KindEmptyData, KindSerializedError:
		return ErrCodeAPI
	case KindParameterEncodingFailed:
		return ErrCodeValidation
	case KindResponseSerializationFailed:
		return ErrCodeDecode
	default:
		return ErrCodeInternal
	}
}

// IsClientError returns true for 4xx responses.
func (e *Error) IsClientError() bool {
	return e.Kind == KindSerializedError && e.StatusCode >= 400 && e.StatusCode < 500
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindUnknown
}
