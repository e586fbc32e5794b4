package value

import (
	"io"
	"strconv"
	"unicode/utf8"

	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/types"
)

// Safe-integer bounds for JSON conversion (spec §6.3): int64/uint64
// outside ±(2^53-1) serialize as decimal strings, matching JSON's
// float64-based number type.
const (
	safeIntMax = int64(1)<<53 - 1
	safeIntMin = -(int64(1)<<53 - 1)
	safeUint   = uint64(1)<<53 - 1
)

// --- null ---------------------------------------------------------------

type nullValue struct{}

// Null is the singleton null value.
var Null Value = nullValue{}

func (nullValue) Kind() core.Kind  { return core.KindNull }
func (nullValue) Type() types.Type { return types.Null() }
func (nullValue) DebugString() string { return "null" }
func (v nullValue) Equal(other Value) Value {
	if p, ok := Propagate(v, other); ok {
		return p
	}
	return Bool(other.Kind() == core.KindNull)
}
func (nullValue) SerializeTo(io.Writer) (int, error) { return 0, nil }
func (nullValue) SerializedSize() int                { return 0 }
func (nullValue) ConvertToJSON() (any, error)        { return nil, nil }
func (v nullValue) ConvertToAny(prefix string) (Value, error) {
	return convertToAnyViaSerialize(v, prefix, "google.protobuf.NullValue")
}
func (nullValue) IsZeroValue() bool { return true }

// --- bool -----------------------------------------------------------------

type boolValue bool

// Bool constructs a bool value.
func Bool(b bool) Value { return boolValue(b) }

func (v boolValue) Kind() core.Kind  { return core.KindBool }
func (v boolValue) Type() types.Type { return types.Bool() }
func (v boolValue) DebugString() string {
	if v {
		return "true"
	}
	return "false"
}
func (v boolValue) Equal(other Value) Value {
	if p, ok := Propagate(v, other); ok {
		return p
	}
	o, ok := other.(boolValue)
	if !ok {
		return Bool(false)
	}
	return Bool(v == o)
}
func (v boolValue) SerializeTo(w io.Writer) (int, error) {
	return marshalTo(w, wrapperspb.Bool(bool(v)))
}
func (v boolValue) SerializedSize() int       { return len(mustMarshal(wrapperspb.Bool(bool(v)))) }
func (v boolValue) ConvertToJSON() (any, error) { return bool(v), nil }
func (v boolValue) ConvertToAny(prefix string) (Value, error) {
	return convertToAnyViaSerialize(v, prefix, "google.protobuf.BoolValue")
}
func (v boolValue) IsZeroValue() bool { return !bool(v) }

// --- int --------------------------------------------------------------

type intValue int64

// Int constructs an int value.
func Int(i int64) Value { return intValue(i) }

func (v intValue) Kind() core.Kind       { return core.KindInt }
func (v intValue) Type() types.Type      { return types.Int() }
func (v intValue) DebugString() string   { return FormatInt(int64(v)) }
func (v intValue) Equal(other Value) Value {
	if p, ok := Propagate(v, other); ok {
		return p
	}
	switch o := other.(type) {
	case intValue:
		return Bool(int64(v) == int64(o))
	case uintValue:
		return Bool(intEqualsUint(int64(v), uint64(o)))
	case doubleValue:
		return Bool(intEqualsDouble(int64(v), float64(o)))
	default:
		return Bool(false)
	}
}
func (v intValue) SerializeTo(w io.Writer) (int, error) {
	return marshalTo(w, wrapperspb.Int64(int64(v)))
}
func (v intValue) SerializedSize() int { return len(mustMarshal(wrapperspb.Int64(int64(v)))) }
func (v intValue) ConvertToJSON() (any, error) {
	i := int64(v)
	if i > safeIntMax || i < safeIntMin {
		return strconv.FormatInt(i, 10), nil
	}
	return i, nil
}
func (v intValue) ConvertToAny(prefix string) (Value, error) {
	return convertToAnyViaSerialize(v, prefix, "google.protobuf.Int64Value")
}
func (v intValue) IsZeroValue() bool { return v == 0 }

// --- uint -------------------------------------------------------------

type uintValue uint64

// Uint constructs a uint value.
func Uint(u uint64) Value { return uintValue(u) }

func (v uintValue) Kind() core.Kind     { return core.KindUint }
func (v uintValue) Type() types.Type    { return types.Uint() }
func (v uintValue) DebugString() string { return FormatUint(uint64(v)) + "u" }
func (v uintValue) Equal(other Value) Value {
	if p, ok := Propagate(v, other); ok {
		return p
	}
	switch o := other.(type) {
	case uintValue:
		return Bool(uint64(v) == uint64(o))
	case intValue:
		return Bool(intEqualsUint(int64(o), uint64(v)))
	case doubleValue:
		return Bool(uintEqualsDouble(uint64(v), float64(o)))
	default:
		return Bool(false)
	}
}
func (v uintValue) SerializeTo(w io.Writer) (int, error) {
	return marshalTo(w, wrapperspb.UInt64(uint64(v)))
}
func (v uintValue) SerializedSize() int { return len(mustMarshal(wrapperspb.UInt64(uint64(v)))) }
func (v uintValue) ConvertToJSON() (any, error) {
	u := uint64(v)
	if u > safeUint {
		return strconv.FormatUint(u, 10), nil
	}
	return u, nil
}
func (v uintValue) ConvertToAny(prefix string) (Value, error) {
	return convertToAnyViaSerialize(v, prefix, "google.protobuf.UInt64Value")
}
func (v uintValue) IsZeroValue() bool { return v == 0 }

// --- double -------------------------------------------------------------

type doubleValue float64

// Double constructs a double value.
func Double(d float64) Value { return doubleValue(d) }

func (v doubleValue) Kind() core.Kind     { return core.KindDouble }
func (v doubleValue) Type() types.Type    { return types.Double() }
func (v doubleValue) DebugString() string { return FormatDouble(float64(v)) }
func (v doubleValue) Equal(other Value) Value {
	if p, ok := Propagate(v, other); ok {
		return p
	}
	switch o := other.(type) {
	case doubleValue:
		return Bool(float64(v) == float64(o))
	case intValue:
		return Bool(intEqualsDouble(int64(o), float64(v)))
	case uintValue:
		return Bool(uintEqualsDouble(uint64(o), float64(v)))
	default:
		return Bool(false)
	}
}
func (v doubleValue) SerializeTo(w io.Writer) (int, error) {
	return marshalTo(w, wrapperspb.Double(float64(v)))
}
func (v doubleValue) SerializedSize() int { return len(mustMarshal(wrapperspb.Double(float64(v)))) }
func (v doubleValue) ConvertToJSON() (any, error) {
	d := float64(v)
	switch {
	case isNaN(d):
		return "NaN", nil
	case isPosInf(d):
		return "Infinity", nil
	case isNegInf(d):
		return "-Infinity", nil
	}
	return d, nil
}
func (v doubleValue) ConvertToAny(prefix string) (Value, error) {
	return convertToAnyViaSerialize(v, prefix, "google.protobuf.DoubleValue")
}
func (v doubleValue) IsZeroValue() bool { return v == 0 }

// --- bytes ----------------------------------------------------------------

type bytesValue []byte

// Bytes constructs a bytes value, copying the input so later mutation by
// the caller cannot violate value immutability.
func Bytes(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return bytesValue(cp)
}

func (v bytesValue) Kind() core.Kind     { return core.KindBytes }
func (v bytesValue) Type() types.Type    { return types.Bytes() }
func (v bytesValue) DebugString() string { return QuoteBytes(v) }
func (v bytesValue) Equal(other Value) Value {
	if p, ok := Propagate(v, other); ok {
		return p
	}
	o, ok := other.(bytesValue)
	if !ok {
		return Bool(false)
	}
	return Bool(bytesEqual(v, o))
}
func (v bytesValue) SerializeTo(w io.Writer) (int, error) {
	return marshalTo(w, wrapperspb.Bytes(v))
}
func (v bytesValue) SerializedSize() int { return len(mustMarshal(wrapperspb.Bytes(v))) }
func (v bytesValue) ConvertToJSON() (any, error) {
	return base64Encode(v), nil
}
func (v bytesValue) ConvertToAny(prefix string) (Value, error) {
	return convertToAnyViaSerialize(v, prefix, "google.protobuf.BytesValue")
}
func (v bytesValue) IsZeroValue() bool { return len(v) == 0 }

// --- string -----------------------------------------------------------

type stringValue struct {
	s string
}

// NewCheckedString validates UTF-8 (spec §3.3, §8 invariant 8) before
// constructing a string value.
func NewCheckedString(s string) (Value, error) {
	if !utf8.ValidString(s) {
		return nil, invalidArgument("string is not valid UTF-8")
	}
	return stringValue{s}, nil
}

// NewUncheckedString bypasses UTF-8 validation. Only for call sites that
// can already guarantee validity — the bytes<->string coercion sites spec
// §3.3 carves out, and host struct bridges reading a field the host format
// already validated.
func NewUncheckedString(s string) Value { return stringValue{s} }

func (v stringValue) Kind() core.Kind     { return core.KindString }
func (v stringValue) Type() types.Type    { return types.String() }
func (v stringValue) DebugString() string { return QuoteString(v.s) }
func (v stringValue) Equal(other Value) Value {
	if p, ok := Propagate(v, other); ok {
		return p
	}
	o, ok := other.(stringValue)
	if !ok {
		return Bool(false)
	}
	return Bool(v.s == o.s)
}
func (v stringValue) SerializeTo(w io.Writer) (int, error) {
	return marshalTo(w, wrapperspb.String(v.s))
}
func (v stringValue) SerializedSize() int { return len(mustMarshal(wrapperspb.String(v.s))) }
func (v stringValue) ConvertToJSON() (any, error) { return v.s, nil }
func (v stringValue) ConvertToAny(prefix string) (Value, error) {
	return convertToAnyViaSerialize(v, prefix, "google.protobuf.StringValue")
}
func (v stringValue) IsZeroValue() bool { return v.s == "" }

// StringRuneLen returns a string value's size as CEL defines it: the
// Unicode code-point count, not the UTF-8 byte length (spec §3.3, S10).
func StringRuneLen(v Value) (int64, bool) {
	sv, ok := v.(stringValue)
	if !ok {
		return 0, false
	}
	return int64(utf8.RuneCountInString(sv.s)), true
}

// StringValueOf extracts the Go string backing a string value.
func StringValueOf(v Value) (string, bool) {
	sv, ok := v.(stringValue)
	if !ok {
		return "", false
	}
	return sv.s, true
}

// BytesValueOf extracts the Go []byte backing a bytes value.
func BytesValueOf(v Value) ([]byte, bool) {
	bv, ok := v.(bytesValue)
	if !ok {
		return nil, false
	}
	return []byte(bv), true
}
