package errors

import "fmt"

// ReasonKind identifies why parameter encoding failed.
type ReasonKind int

// Reason kinds.
const (
	ReasonMissingURL ReasonKind = iota
	ReasonInvalidJSONObject
	ReasonJSONEncodingFailed
	ReasonCustomEncodingFailed
)

// String returns a string representation of the reason kind.
func (k ReasonKind) String() string {
	switch k {
	case ReasonMissingURL:
		return "missing_url"
	case ReasonInvalidJSONObject:
		return "invalid_json_object"
	case ReasonJSONEncodingFailed:
		return "json_encoding_failed"
	case ReasonCustomEncodingFailed:
		return "custom_encoding_failed"
	default:
		return fmt.Sprintf("reason(%d)", int(k))
	}
}

// Reason describes a parameter encoding failure.
type Reason struct {
	Kind ReasonKind

	// Err is the encoder failure for ReasonJSONEncodingFailed and
	// ReasonCustomEncodingFailed.
	Err error
}

// MissingURL is the reason used when the descriptor URL does not parse.
func MissingURL() *Reason {
	return &Reason{Kind: ReasonMissingURL}
}

// InvalidJSONObject is the reason used when a body map is not a JSON object.
func InvalidJSONObject() *Reason {
	return &Reason{Kind: ReasonInvalidJSONObject}
}

// JSONEncodingFailed is the reason used when serializing a body map fails.
func JSONEncodingFailed(err error) *Reason {
	return &Reason{Kind: ReasonJSONEncodingFailed, Err: err}
}

// CustomEncodingFailed is the reason used when encoding a JSON model fails.
func CustomEncodingFailed(err error) *Reason {
	return &Reason{Kind: ReasonCustomEncodingFailed, Err: err}
}

// String implements fmt.Stringer.
func (r *Reason) String() string {
	if r == nil {
		return "<nil>"
	}
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Kind, r.Err)
	}
	return r.Kind.String()
}

// Equal reports whether r and other describe the same failure.
func (r *Reason) Equal(other *Reason) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Kind == other.Kind && EqualCause(r.Err, other.Err)
}
