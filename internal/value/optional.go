package value

import (
	"io"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/types"
)

// optionalValue implements optional(E) (spec §3.3, §4.4.4): present-with-
// value or absent. optType is the factory-interned optional(E) type;
// constructing it is the ValueFactory's job (C5), which already holds the
// types.Factory needed to intern it.
type optionalValue struct {
	optType types.Type
	present bool
	value   Value
}

// Present constructs a present(v) optional value of the given interned
// optional type.
func Present(optType types.Type, v Value) Value {
	return &optionalValue{optType: optType, present: true, value: v}
}

// Absent constructs the absent optional value of the given interned
// optional type.
func Absent(optType types.Type) Value {
	return &optionalValue{optType: optType, present: false}
}

func (v *optionalValue) Kind() core.Kind  { return core.KindOptional }
func (v *optionalValue) Type() types.Type { return v.optType }

// Unwrap returns (value, true) when present, (nil, false) when absent.
// Per spec §3.3, "absent.value() is undefined" — callers must test
// presence first; this method makes that test explicit instead of
// panicking.
func (v *optionalValue) Unwrap() (Value, bool) {
	if !v.present {
		return nil, false
	}
	return v.value, true
}

func (v *optionalValue) DebugString() string {
	if !v.present {
		return "optional.none()"
	}
	return "optional.of(" + v.value.DebugString() + ")"
}
func (v *optionalValue) Equal(other Value) Value {
	if p, ok := Propagate(v, other); ok {
		return p
	}
	o, ok := other.(*optionalValue)
	if !ok {
		return Bool(false)
	}
	if !v.present && !o.present {
		return Bool(true)
	}
	if v.present != o.present {
		return Bool(false)
	}
	return v.value.Equal(o.value)
}
func (v *optionalValue) SerializeTo(io.Writer) (int, error) {
	return 0, &OpError{Code: core.CodeUnimplemented, Message: "optional values are not independently serializable"}
}
func (v *optionalValue) SerializedSize() int { return 0 }
func (v *optionalValue) ConvertToJSON() (any, error) {
	if !v.present {
		return nil, nil
	}
	return v.value.ConvertToJSON()
}
func (v *optionalValue) ConvertToAny(string) (Value, error) {
	return nil, &OpError{Code: core.CodeUnimplemented, Message: "optional values are not independently serializable"}
}

// IsZeroValue reports true for the absent state, the optional kind's
// neutral element (spec §4.4.1).
func (v *optionalValue) IsZeroValue() bool { return !v.present }
