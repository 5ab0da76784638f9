package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	pkgerrors "github.com/jdziat/netreq/pkg/errors"
)

// ErrorDomain is the domain reported by transport errors.
const ErrorDomain = "netreq.transport"

// Transport error codes. The values follow the URL loading system codes so
// that errors coming from other transports compare equal by code.
const (
	CodeUnknown                  = -1
	CodeCancelled                = -999
	CodeTimedOut                 = -1001
	CodeCannotConnectToHost      = -1004
	CodeNotConnectedToInternet   = -1009
	CodeDataLengthExceedsMaximum = -1103
)

// Error is a coded transport failure.
type Error struct {
	// Code is one of the Code constants.
	Code int

	// Op names the step that failed, such as "do", "read" or "hook".
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("netreq: transport %s failed (code %d)", e.Op, e.Code)
	}
	return fmt.Sprintf("netreq: transport %s failed (code %d): %v", e.Op, e.Code, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorDomain implements errors.CodedError.
func (e *Error) ErrorDomain() string {
	return ErrorDomain
}

// ErrorCode implements errors.CodedError.
func (e *Error) ErrorCode() int {
	return e.Code
}

var _ pkgerrors.CodedError = (*Error)(nil)

// NewError returns a transport error for op, deriving its code from err.
func NewError(op string, err error) *Error {
	return &Error{Code: codeOf(err), Op: op, Err: err}
}

func codeOf(err error) int {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return CodeCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimedOut
	case errors.Is(err, syscall.ENETUNREACH):
		return CodeNotConnectedToInternet
	case errors.Is(err, syscall.ECONNREFUSED):
		return CodeCannotConnectToHost
	case errors.As(err, &netErr) && netErr.Timeout():
		return CodeTimedOut
	default:
		return CodeUnknown
	}
}

// IsNetworkUnavailable reports whether err means the device has no network
// path: a coded error carrying CodeNotConnectedToInternet, or ENETUNREACH
// anywhere in the chain.
func IsNetworkUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var coded pkgerrors.CodedError
	if errors.As(err, &coded) && coded.ErrorCode() == CodeNotConnectedToInternet {
		return true
	}
	return errors.Is(err, syscall.ENETUNREACH)
}
