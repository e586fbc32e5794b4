package value

import (
	"io"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/types"
)

// typeValue wraps a types.Type so it can flow through expressions as a
// value (spec §3.1 — "type" is a kind of both a type and a value).
type typeValue struct {
	inner types.Type
}

// OfType wraps a Type as a Value of kind "type".
func OfType(t types.Type) Value { return &typeValue{inner: t} }

// TypeOfValue extracts the wrapped types.Type from a type-kind value.
func TypeOfValue(v Value) (types.Type, bool) {
	tv, ok := v.(*typeValue)
	if !ok {
		return nil, false
	}
	return tv.inner, true
}

func (v *typeValue) Kind() core.Kind     { return core.KindType }
func (v *typeValue) Type() types.Type    { return types.TypeType() }
func (v *typeValue) DebugString() string { return v.inner.DebugString() }
func (v *typeValue) Equal(other Value) Value {
	if p, ok := Propagate(v, other); ok {
		return p
	}
	o, ok := other.(*typeValue)
	if !ok {
		return Bool(false)
	}
	// Types are value-equal and handle-identical within one factory (spec
	// §3.2); comparing canonical names is equivalent and also correct
	// across factories, where handle identity would wrongly say "unequal"
	// for two structurally identical types.
	return Bool(v.inner.Name() == o.inner.Name())
}
func (v *typeValue) SerializeTo(io.Writer) (int, error) {
	return 0, &OpError{Code: core.CodeUnimplemented, Message: "type values are not serializable"}
}
func (v *typeValue) SerializedSize() int { return 0 }
func (v *typeValue) ConvertToJSON() (any, error) {
	return v.inner.Name(), nil
}
func (v *typeValue) ConvertToAny(string) (Value, error) {
	return nil, &OpError{Code: core.CodeUnimplemented, Message: "type values are not serializable"}
}
func (v *typeValue) IsZeroValue() bool { return v.inner.Kind() == core.KindDyn }
