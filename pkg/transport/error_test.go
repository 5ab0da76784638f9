package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"

	pkgerrors "github.com/jdziat/netreq/pkg/errors"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestNewError_Code(t *testing.T) {
	unreachable := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ENETUNREACH)}
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"canceled", context.Canceled, CodeCancelled},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), CodeTimedOut},
		{"net timeout", &net.OpError{Op: "read", Err: timeoutError{}}, CodeTimedOut},
		{"unreachable", unreachable, CodeNotConnectedToInternet},
		{"refused", refused, CodeCannotConnectToHost},
		{"other", errors.New("tls: bad certificate"), CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewError("do", tt.err)
			if got.Code != tt.want {
				t.Errorf("Code = %d, want %d", got.Code, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("transport error should wrap its cause")
			}
			if got.ErrorDomain() != ErrorDomain || got.ErrorCode() != tt.want {
				t.Errorf("coded identity = (%s, %d)", got.ErrorDomain(), got.ErrorCode())
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Code: CodeTimedOut, Op: "do", Err: errors.New("deadline")}
	if got, want := err.Error(), "netreq: transport do failed (code -1001): deadline"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	bare := &Error{Code: CodeUnknown, Op: "hook"}
	if got, want := bare.Error(), "netreq: transport hook failed (code -1)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

type foreignCoded struct{ code int }

func (e foreignCoded) Error() string       { return "foreign" }
func (e foreignCoded) ErrorDomain() string { return "other" }
func (e foreignCoded) ErrorCode() int      { return e.code }

func TestIsNetworkUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"coded -1009", &Error{Code: CodeNotConnectedToInternet}, true},
		{"wrapped coded -1009", fmt.Errorf("outer: %w", &Error{Code: CodeNotConnectedToInternet}), true},
		{"foreign coded -1009", foreignCoded{code: -1009}, true},
		{"foreign coded other", foreignCoded{code: -1001}, false},
		{"enetunreach", fmt.Errorf("dial: %w", syscall.ENETUNREACH), true},
		{"timeout", &Error{Code: CodeTimedOut, Err: context.DeadlineExceeded}, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNetworkUnavailable(tt.err); got != tt.want {
				t.Errorf("IsNetworkUnavailable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError_EqualCause(t *testing.T) {
	a := &Error{Code: CodeNotConnectedToInternet, Op: "do", Err: errors.New("a")}
	b := &Error{Code: CodeNotConnectedToInternet, Op: "read", Err: errors.New("b")}
	c := &Error{Code: CodeTimedOut}

	if !pkgerrors.EqualCause(a, b) {
		t.Error("transport errors with the same code should be equal causes")
	}
	if pkgerrors.EqualCause(a, c) {
		t.Error("transport errors with different codes should differ")
	}
}
