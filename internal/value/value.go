// Package value implements celval's value model (spec §3.3, §4.4): the
// discriminated union of runtime values that parallels the type model in
// internal/types, plus the error/unknown propagation rules that make error
// and unknown first-class, observable values rather than Go errors.
//
// Two failure channels coexist by design. Operations that the evaluator
// must be able to keep folding into further expressions (container access,
// equality) surface failure as a Value of kind error or unknown, per spec
// §7 — "the core never throws ... it returns a well-typed error value".
// Operations a caller consumes directly and does not feed back into
// evaluation (builders, checked constructors, serialization) return a Go
// error instead, since there is no further expression to propagate into.
package value

import (
	"bytes"
	"fmt"
	"io"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/types"
)

// Value is the interface every celval value implements (spec §4.4.1).
type Value interface {
	Kind() core.Kind
	Type() types.Type
	// DebugString renders a deterministic textual form suitable for
	// diagnostics and golden tests (spec §6.3).
	DebugString() string
	// Equal implements CEL equality. The result is itself a Value: a bool
	// value on ordinary comparisons, or the error/unknown that propagates
	// when either operand (or both) is error/unknown (spec §7).
	Equal(other Value) Value
	SerializeTo(w io.Writer) (int, error)
	SerializedSize() int
	// ConvertToJSON returns a Go-native JSON-ready representation: nil,
	// bool, float64, int64, uint64, string, []any, or map[string]any. Callers pass
	// this directly to encoding/json.
	ConvertToJSON() (any, error)
	// ConvertToAny wraps the value's canonical serialization with a type
	// URL built from typeURLPrefix + the wire message's full name.
	ConvertToAny(typeURLPrefix string) (Value, error)
	IsZeroValue() bool
}

// OpError is the Go-error form of celval's closed error taxonomy (spec
// §7), returned by constructors and builders that are not themselves part
// of a value chain an evaluator needs to keep propagating.
type OpError struct {
	Code    core.Code
	Message string
}

func (e *OpError) Error() string { return string(e.Code) + ": " + e.Message }

func invalidArgument(format string, args ...any) *OpError {
	return &OpError{Code: core.CodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func outOfRange(format string, args ...any) *OpError {
	return &OpError{Code: core.CodeOutOfRange, Message: fmt.Sprintf(format, args...)}
}

// Borrow pairs a container read's result (spec §4.4.3) with whether it
// aliases the caller-supplied scratch slot rather than storage the
// container owns. The container reads in this module (ListValue.Get,
// MapValue.Get, StructValue.Qualify) return a plain Value, not a Borrow.
// A borrowed value may only be read before the container's next mutation
// (impossible, since values are immutable) or the scratch slot's next reuse.
type Borrow struct {
	Value       Value
	FromScratch bool
}

// ErrorValue is the capability interface error-kind values expose in
// addition to Value (spec §4.4.5).
type ErrorValue interface {
	Value
	Code() core.Code
	Message() string
	Payload(url string) (Value, bool)
}

type errorValue struct {
	code     core.Code
	message  string
	payloads map[string]Value
}

// NewError constructs an error value with no structured payload.
func NewError(code core.Code, message string) Value {
	return &errorValue{code: code, message: message}
}

// NewErrorWithPayload constructs an error value carrying one payload keyed
// by url (used for "missing attribute" and "unknown function result"
// markers per spec §4.4.5).
func NewErrorWithPayload(code core.Code, message, url string, payload Value) Value {
	return &errorValue{code: code, message: message, payloads: map[string]Value{url: payload}}
}

// FromOpError lifts a constructor-time OpError into an error value, for
// call sites that want to hand a Go error onward into the value space.
func FromOpError(err *OpError) Value {
	return NewError(err.Code, err.Message)
}

func (e *errorValue) Kind() core.Kind  { return core.KindError }
func (e *errorValue) Type() types.Type { return types.Error() }
func (e *errorValue) Code() core.Code  { return e.code }
func (e *errorValue) Message() string  { return e.message }
func (e *errorValue) Payload(url string) (Value, bool) {
	v, ok := e.payloads[url]
	return v, ok
}
func (e *errorValue) DebugString() string {
	return fmt.Sprintf("error(code=%s, message=%q)", e.code, e.message)
}

// Equal against an error value always yields that error, regardless of the
// other operand — equality is not exempt from error propagation (spec §7).
func (e *errorValue) Equal(other Value) Value {
	p, _ := Propagate(e, other)
	return p
}
func (e *errorValue) SerializeTo(_ io.Writer) (int, error) {
	return 0, &OpError{Code: core.CodeUnimplemented, Message: "error values are not serializable"}
}
func (e *errorValue) SerializedSize() int { return 0 }
func (e *errorValue) ConvertToJSON() (any, error) {
	return nil, &OpError{Code: core.CodeUnimplemented, Message: "error values have no JSON form"}
}
func (e *errorValue) ConvertToAny(string) (Value, error) {
	return nil, &OpError{Code: core.CodeUnimplemented, Message: "error values are not serializable"}
}
func (e *errorValue) IsZeroValue() bool { return false }

// anyValue is the Any kind: a type URL paired with opaque serialized
// bytes. It is produced by ConvertToAny and consumed by the reflector
// (internal/reflect, C6) which alone knows how to deserialize arbitrary
// type URLs.
type anyValue struct {
	typeURL string
	data    []byte
}

// NewAny constructs an Any value directly from a type URL and serialized
// bytes, for hosts and the reflector that already have both in hand.
func NewAny(typeURL string, data []byte) Value {
	return &anyValue{typeURL: typeURL, data: append([]byte(nil), data...)}
}

func (v *anyValue) Kind() core.Kind  { return core.KindAny }
func (v *anyValue) Type() types.Type { return types.Any() }
func (v *anyValue) TypeURL() string  { return v.typeURL }
func (v *anyValue) Data() []byte     { return v.data }
func (v *anyValue) DebugString() string {
	return fmt.Sprintf("Any{type_url: %q, value: %d bytes}", v.typeURL, len(v.data))
}
func (v *anyValue) Equal(other Value) Value {
	if p, ok := Propagate(v, other); ok {
		return p
	}
	o, ok := other.(*anyValue)
	if !ok {
		return Bool(false)
	}
	return Bool(v.typeURL == o.typeURL && bytes.Equal(v.data, o.data))
}
func (v *anyValue) SerializeTo(w io.Writer) (int, error) {
	return serializeAnyMessage(w, v.typeURL, v.data)
}
func (v *anyValue) SerializedSize() int { return anyMessageSize(v.typeURL, v.data) }
func (v *anyValue) ConvertToJSON() (any, error) {
	// Per spec §9's Open Question resolution: an Any whose type URL this
	// package cannot resolve on its own (it has no reflector) returns
	// unimplemented rather than guessing at a conversion. Unpacking the
	// payload is left to a reflector's DeserializeAny (C6); this method
	// always returns unimplemented.
	return nil, &OpError{Code: core.CodeUnimplemented, Message: "Any JSON conversion requires a type reflector"}
}
func (v *anyValue) ConvertToAny(string) (Value, error) { return v, nil }
func (v *anyValue) IsZeroValue() bool                  { return v.typeURL == "" && len(v.data) == 0 }

// convertToAnyViaSerialize is the shared ConvertToAny implementation for
// every kind whose wire form is "serialize, then wrap with a type URL"
// (spec §4.4.1, §6.3).
func convertToAnyViaSerialize(v Value, typeURLPrefix, messageFullName string) (Value, error) {
	var buf bytes.Buffer
	if _, err := v.SerializeTo(&buf); err != nil {
		return nil, err
	}
	return NewAny(typeURLPrefix+messageFullName, buf.Bytes()), nil
}
