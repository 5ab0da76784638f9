// Package codec holds the encoding collaborators of the builder and the
// dispatcher, and their JSON implementations.
package codec

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
)

// Encoder turns a value into request body bytes.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// Decoder turns response body bytes into the value pointed to by v.
type Decoder interface {
	Decode(data []byte, v any) error
}

// Serializer validates and serializes loosely typed JSON objects
// (map[string]any bodies).
type Serializer interface {
	// IsValidJSONObject reports whether v can be serialized as a JSON object.
	IsValidJSONObject(v any) bool

	// Marshal serializes v.
	Marshal(v any) ([]byte, error)
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(v any) ([]byte, error)

// Encode implements Encoder.
func (f EncoderFunc) Encode(v any) ([]byte, error) {
	return f(v)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(data []byte, v any) error

// Decode implements Decoder.
func (f DecoderFunc) Decode(data []byte, v any) error {
	return f(data, v)
}

// JSON is the default Encoder, Decoder and Serializer.
type JSON struct {
	// DisallowUnknownFields makes Decode reject object keys that do not
	// match a destination field.
	DisallowUnknownFields bool
}

var (
	_ Encoder    = JSON{}
	_ Decoder    = JSON{}
	_ Serializer = JSON{}
)

// Encode implements Encoder.
func (JSON) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode implements Decoder.
func (j JSON) Decode(data []byte, v any) error {
	if !j.DisallowUnknownFields {
		return json.Unmarshal(data, v)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Marshal implements Serializer.
func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// IsValidJSONObject implements Serializer. See IsValidJSONObject.
func (JSON) IsValidJSONObject(v any) bool {
	return IsValidJSONObject(v)
}

// IsValidJSONObject reports whether v is a JSON object made only of JSON
// values: the top level must be a map with string keys, and every nested
// value must be a string, a finite number, a bool, nil, a slice or array of
// JSON values, or another such map. Structs are rejected, as are NaN and
// infinities.
func IsValidJSONObject(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.IsNil() {
		return false
	}
	return isJSONValue(rv)
}

func isJSONValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Invalid:
		return true // untyped nil
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return true
		}
		return isJSONValue(rv.Elem())
	case reflect.String, reflect.Bool:
		return true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !isJSONValue(rv.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return false
		}
		iter := rv.MapRange()
		for iter.Next() {
			if !isJSONValue(iter.Value()) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
