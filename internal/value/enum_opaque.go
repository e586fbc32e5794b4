package value

import (
	"fmt"
	"io"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/types"
)

// --- enum -----------------------------------------------------------------

type enumValue struct {
	t      types.EnumType
	number int32
}

// NewEnum constructs an enum value: the numeric value is its canonical
// form (spec §3.3 — "(enum-type, signed integer); numeric value is the
// canonical form").
func NewEnum(t types.EnumType, number int32) Value {
	return &enumValue{t: t, number: number}
}

func (v *enumValue) Kind() core.Kind  { return core.KindEnum }
func (v *enumValue) Type() types.Type { return v.t }
func (v *enumValue) Number() int32    { return v.number }
func (v *enumValue) DebugString() string {
	return fmt.Sprintf("%s(%d)", v.t.FullName(), v.number)
}
func (v *enumValue) Equal(other Value) Value {
	if p, ok := Propagate(v, other); ok {
		return p
	}
	o, ok := other.(*enumValue)
	if !ok {
		return Bool(false)
	}
	return Bool(v.t.FullName() == o.t.FullName() && v.number == o.number)
}
func (v *enumValue) SerializeTo(w io.Writer) (int, error) {
	return Int(int64(v.number)).SerializeTo(w)
}
func (v *enumValue) SerializedSize() int { return Int(int64(v.number)).SerializedSize() }
func (v *enumValue) ConvertToJSON() (any, error) {
	return int64(v.number), nil
}
func (v *enumValue) ConvertToAny(prefix string) (Value, error) {
	return convertToAnyViaSerialize(v, prefix, "google.protobuf.Int32Value")
}
func (v *enumValue) IsZeroValue() bool { return v.number == 0 }

// --- opaque -----------------------------------------------------------------

// OpaqueValue is the capability interface opaque (host-extension) values
// expose in addition to Value (spec §3.3, §9 "open-extension kinds").
// Hosts supply equality and debug-string semantics for the payload they
// own; celval itself never inspects it.
type OpaqueValue interface {
	Value
	Payload() any
}

type opaqueValue struct {
	t       types.Type
	payload any
	equal   func(a, b any) bool
	debug   func(any) string
}

// NewOpaque constructs a host-extension value. equalFn and debugFn are
// supplied by the host and own all comparison/rendering semantics for
// payload; celval treats payload as opaque.
func NewOpaque(t types.Type, payload any, equalFn func(a, b any) bool, debugFn func(any) string) Value {
	return &opaqueValue{t: t, payload: payload, equal: equalFn, debug: debugFn}
}

func (v *opaqueValue) Kind() core.Kind  { return core.KindOpaque }
func (v *opaqueValue) Type() types.Type { return v.t }
func (v *opaqueValue) Payload() any     { return v.payload }
func (v *opaqueValue) DebugString() string {
	if v.debug != nil {
		return v.debug(v.payload)
	}
	return fmt.Sprintf("%s{...}", v.t.Name())
}
func (v *opaqueValue) Equal(other Value) Value {
	if p, ok := Propagate(v, other); ok {
		return p
	}
	o, ok := other.(*opaqueValue)
	if !ok || o.t.Name() != v.t.Name() {
		return Bool(false)
	}
	if v.equal == nil {
		return Bool(false)
	}
	return Bool(v.equal(v.payload, o.payload))
}
func (v *opaqueValue) SerializeTo(io.Writer) (int, error) {
	return 0, &OpError{Code: core.CodeUnimplemented, Message: "opaque values are not serializable by default"}
}
func (v *opaqueValue) SerializedSize() int { return 0 }
func (v *opaqueValue) ConvertToJSON() (any, error) {
	return nil, &OpError{Code: core.CodeUnimplemented, Message: "opaque values have no default JSON form"}
}
func (v *opaqueValue) ConvertToAny(string) (Value, error) {
	return nil, &OpError{Code: core.CodeUnimplemented, Message: "opaque values are not serializable by default"}
}
func (v *opaqueValue) IsZeroValue() bool { return false }
