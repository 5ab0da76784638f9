package netreq

import (
	"github.com/jdziat/netreq/pkg/dispatcher"
	pkgerrors "github.com/jdziat/netreq/pkg/errors"
	"github.com/jdziat/netreq/pkg/lifecycle"
	"github.com/jdziat/netreq/pkg/logging"
	"github.com/jdziat/netreq/pkg/request"
)

// Request descriptors.
type (
	Descriptor    = request.Descriptor
	Parameters    = request.Parameters
	Method        = request.Method
	ParameterKind = request.ParameterKind
)

// Methods.
const (
	MethodGet  = request.MethodGet
	MethodPost = request.MethodPost
)

// Parameter constructors and descriptor factories.
var (
	Plain       = request.Plain
	QueryItems  = request.QueryItems
	JSON        = request.JSON
	Body        = request.Body
	NewGET      = request.NewGET
	NewPOSTJSON = request.NewPOSTJSON
	NewPOSTBody = request.NewPOSTBody
)

// Result carries either a decoded value or an *Error.
type Result[T any] = dispatcher.Result[T]

// Error taxonomy.
type (
	Error      = pkgerrors.Error
	ErrorKind  = pkgerrors.Kind
	ErrorCode  = pkgerrors.ErrorCode
	Reason     = pkgerrors.Reason
	ReasonKind = pkgerrors.ReasonKind
	CodedError = pkgerrors.CodedError
)

// Error kinds.
const (
	KindUnknown                     = pkgerrors.KindUnknown
	KindNetworkUnavailable          = pkgerrors.KindNetworkUnavailable
	KindInvalidHTTPResponse         = pkgerrors.KindInvalidHTTPResponse
	KindEmptyData                   = pkgerrors.KindEmptyData
	KindSerializedError             = pkgerrors.KindSerializedError
	KindRequest                     = pkgerrors.KindRequest
	KindParameterEncodingFailed     = pkgerrors.KindParameterEncodingFailed
	KindResponseSerializationFailed = pkgerrors.KindResponseSerializationFailed
)

// Sentinels for errors.Is.
var (
	ErrUnknown             = pkgerrors.ErrUnknown
	ErrNetworkUnavailable  = pkgerrors.ErrNetworkUnavailable
	ErrInvalidHTTPResponse = pkgerrors.ErrInvalidHTTPResponse
	ErrEmptyData           = pkgerrors.ErrEmptyData

	// ErrClientClosed is the cause of the Request error returned for
	// requests started after Client.Close.
	ErrClientClosed = lifecycle.ErrClosed
)

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	return pkgerrors.AsError(err)
}

// KindOf returns the Kind of the *Error in err's chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	return pkgerrors.KindOf(err)
}

// Logging.
type (
	Logger           = logging.Logger
	StructuredLogger = logging.StructuredLogger
)

// Logger adapters.
var (
	WrapPrintfLogger = logging.WrapPrintfLogger
	WrapStdLogger    = logging.WrapStdLogger
	NewSlogAdapter   = logging.NewSlogAdapter
	NewLogrusAdapter = logging.NewLogrusAdapter
)
