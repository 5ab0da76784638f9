package errors

import (
	"bytes"
	"reflect"
)

// CodedError is implemented by inner causes that carry a stable
// (domain, code) identity, such as transport errors.
type CodedError interface {
	error
	ErrorDomain() string
	ErrorCode() int
}

// Equal reports whether e and other are the same variant with equal payload.
func (e *Error) Equal(other *Error) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Kind != other.Kind {
		return false
	}
	switch e.Kind {
	case KindSerializedError:
		return e.StatusCode == other.StatusCode && bytes.Equal(e.Data, other.Data)
	case KindRequest, KindResponseSerializationFailed:
		return EqualCause(e.Err, other.Err)
	case KindParameterEncodingFailed:
		return e.Reason.Equal(other.Reason)
	default:
		return true
	}
}

// EqualCause compares two inner causes.
//
// Taxonomy errors compare structurally, coded errors by (domain, code),
// same-typed values by deep equality, and anything else by type and message.
func EqualCause(a, b error) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if ae, ok := a.(*Error); ok {
		be, ok := b.(*Error)
		return ok && ae.Equal(be)
	}

	if ac, ok := a.(CodedError); ok {
		if bc, ok := b.(CodedError); ok {
			return ac.ErrorDomain() == bc.ErrorDomain() && ac.ErrorCode() == bc.ErrorCode()
		}
		return false
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if reflect.DeepEqual(a, b) {
		return true
	}
	return a.Error() == b.Error()
}
