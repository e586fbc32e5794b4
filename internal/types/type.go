// Package types implements celval's type model (spec §3.2, §4.3): one
// canonical type per Kind, interned parameterized types, and the builtin
// singleton types every factory hands out.
package types

import (
	"fmt"
	"sync"

	"github.com/oxhq/celval/internal/core"
)

// Type is the common interface every celval type implements. Parameterized
// and open-schema types expose additional structural accessors behind
// narrower interfaces (ListType, MapType, OptionalType, WrapperType,
// StructType, EnumType) rather than a deep inheritance chain — spec §9's
// "sum type for closed kinds, capability interface for open kinds."
type Type interface {
	Kind() core.Kind
	// Name is the canonical textual name: "int", "list(string)",
	// "google.protobuf.Timestamp", etc.
	Name() string
	DebugString() string
}

// primitiveType backs every non-parameterized builtin kind: null, bool,
// int, uint, double, bytes, string, duration, timestamp, type, error,
// unknown, dyn, any.
type primitiveType struct {
	kind core.Kind
	name string
}

func (t *primitiveType) Kind() core.Kind   { return t.kind }
func (t *primitiveType) Name() string      { return t.name }
func (t *primitiveType) DebugString() string { return t.name }

// Builtin singleton types are constructed once-on-demand behind
// sync.OnceValue and never destroyed, per spec §4.3 and the one-shot-latch
// requirement of spec §5.
var (
	nullType      = sync.OnceValue(func() Type { return &primitiveType{core.KindNull, "null"} })
	boolType      = sync.OnceValue(func() Type { return &primitiveType{core.KindBool, "bool"} })
	intType       = sync.OnceValue(func() Type { return &primitiveType{core.KindInt, "int"} })
	uintType      = sync.OnceValue(func() Type { return &primitiveType{core.KindUint, "uint"} })
	doubleType    = sync.OnceValue(func() Type { return &primitiveType{core.KindDouble, "double"} })
	bytesType     = sync.OnceValue(func() Type { return &primitiveType{core.KindBytes, "bytes"} })
	stringType    = sync.OnceValue(func() Type { return &primitiveType{core.KindString, "string"} })
	durationType  = sync.OnceValue(func() Type { return &primitiveType{core.KindDuration, "google.protobuf.Duration"} })
	timestampType = sync.OnceValue(func() Type { return &primitiveType{core.KindTimestamp, "google.protobuf.Timestamp"} })
	typeTypeT     = sync.OnceValue(func() Type { return &primitiveType{core.KindType, "type"} })
	errorType     = sync.OnceValue(func() Type { return &primitiveType{core.KindError, "error"} })
	unknownType   = sync.OnceValue(func() Type { return &primitiveType{core.KindUnknown, "unknown"} })
	dynType       = sync.OnceValue(func() Type { return &primitiveType{core.KindDyn, "dyn"} })
	anyType       = sync.OnceValue(func() Type { return &primitiveType{core.KindAny, "google.protobuf.Any"} })
)

func Null() Type      { return nullType() }
func Bool() Type      { return boolType() }
func Int() Type       { return intType() }
func Uint() Type      { return uintType() }
func Double() Type    { return doubleType() }
func Bytes() Type     { return bytesType() }
func String() Type    { return stringType() }
func Duration() Type  { return durationType() }
func Timestamp() Type { return timestampType() }
func TypeType() Type  { return typeTypeT() }
func Error() Type     { return errorType() }
func Unknown() Type   { return unknownType() }
func Dyn() Type       { return dynType() }
func Any() Type       { return anyType() }

// ListType is the capability interface list<E> types expose in addition to Type.
type ListType interface {
	Type
	Elem() Type
}

type listType struct{ elem Type }

func (t *listType) Kind() core.Kind     { return core.KindList }
func (t *listType) Elem() Type          { return t.elem }
func (t *listType) Name() string        { return fmt.Sprintf("list(%s)", t.elem.Name()) }
func (t *listType) DebugString() string { return t.Name() }

// MapType is the capability interface map<K,V> types expose in addition to Type.
type MapType interface {
	Type
	Key() Type
	Value() Type
}

type mapType struct{ key, value Type }

func (t *mapType) Kind() core.Kind { return core.KindMap }
func (t *mapType) Key() Type       { return t.key }
func (t *mapType) Value() Type     { return t.value }
func (t *mapType) Name() string {
	return fmt.Sprintf("map(%s, %s)", t.key.Name(), t.value.Name())
}
func (t *mapType) DebugString() string { return t.Name() }

// OptionalType is the capability interface optional<E> types expose.
type OptionalType interface {
	Type
	Elem() Type
}

type optionalType struct{ elem Type }

func (t *optionalType) Kind() core.Kind     { return core.KindOptional }
func (t *optionalType) Elem() Type          { return t.elem }
func (t *optionalType) Name() string        { return fmt.Sprintf("optional(%s)", t.elem.Name()) }
func (t *optionalType) DebugString() string { return t.Name() }

// WrapperType is the capability interface the six nullable-primitive
// wrapper types expose.
type WrapperType interface {
	Type
	Primitive() core.Primitive
}

type wrapperType struct{ prim core.Primitive }

func (t *wrapperType) Kind() core.Kind        { return t.prim.Kind() }
func (t *wrapperType) Primitive() core.Primitive { return t.prim }
func (t *wrapperType) Name() string {
	return "google.protobuf." + wrapperMessageName(t.prim)
}
func (t *wrapperType) DebugString() string { return t.Name() }

func wrapperMessageName(p core.Primitive) string {
	switch p {
	case core.PrimitiveBool:
		return "BoolValue"
	case core.PrimitiveInt:
		return "Int64Value"
	case core.PrimitiveUint:
		return "UInt64Value"
	case core.PrimitiveDouble:
		return "DoubleValue"
	case core.PrimitiveBytes:
		return "BytesValue"
	case core.PrimitiveString:
		return "StringValue"
	default:
		return "Value"
	}
}

var (
	boolWrapperType   = sync.OnceValue(func() Type { return &wrapperType{core.PrimitiveBool} })
	intWrapperType    = sync.OnceValue(func() Type { return &wrapperType{core.PrimitiveInt} })
	uintWrapperType   = sync.OnceValue(func() Type { return &wrapperType{core.PrimitiveUint} })
	doubleWrapperType = sync.OnceValue(func() Type { return &wrapperType{core.PrimitiveDouble} })
	bytesWrapperType  = sync.OnceValue(func() Type { return &wrapperType{core.PrimitiveBytes} })
	stringWrapperType = sync.OnceValue(func() Type { return &wrapperType{core.PrimitiveString} })
)

// Wrapper returns the singleton wrapper type for the given primitive.
func Wrapper(p core.Primitive) Type {
	switch p {
	case core.PrimitiveBool:
		return boolWrapperType()
	case core.PrimitiveInt:
		return intWrapperType()
	case core.PrimitiveUint:
		return uintWrapperType()
	case core.PrimitiveDouble:
		return doubleWrapperType()
	case core.PrimitiveBytes:
		return bytesWrapperType()
	case core.PrimitiveString:
		return stringWrapperType()
	default:
		return nil
	}
}

// StructType is the capability interface host-schema record types expose.
type StructType interface {
	Type
	FullName() string
}

type structType struct{ fullName string }

func (t *structType) Kind() core.Kind     { return core.KindStruct }
func (t *structType) FullName() string    { return t.fullName }
func (t *structType) Name() string        { return t.fullName }
func (t *structType) DebugString() string { return t.fullName }

// EnumType is the capability interface host-schema enum types expose.
type EnumType interface {
	Type
	FullName() string
}

type enumType struct{ fullName string }

func (t *enumType) Kind() core.Kind     { return core.KindEnum }
func (t *enumType) FullName() string    { return t.fullName }
func (t *enumType) Name() string        { return t.fullName }
func (t *enumType) DebugString() string { return t.fullName }

// OpaqueType identifies a host-extension opaque type by name (spec §3.3 /
// §4.5's Opaque kind). Opaque types are not interned: hosts construct them
// directly since they own the associated Go type.
type OpaqueType interface {
	Type
}

type opaqueType struct{ name string }

// NewOpaqueType constructs a named opaque type. Hosts own the equality and
// DebugString semantics of the *values* this type classifies (spec §3.3);
// the type itself is just a name tag.
func NewOpaqueType(name string) Type {
	return &opaqueType{name: name}
}

func (t *opaqueType) Kind() core.Kind     { return core.KindOpaque }
func (t *opaqueType) Name() string        { return t.name }
func (t *opaqueType) DebugString() string { return t.name }
