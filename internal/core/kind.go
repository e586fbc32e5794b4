// Package core holds the vocabulary shared by every other celval package:
// the closed Kind taxonomy that tags both types and values, and the closed
// error Code taxonomy values carry when an operation fails.
package core

// Kind is the closed tag set shared by types and values. It is never
// extended at runtime; every value and every type carries exactly one Kind.
type Kind uint8

const (
	KindUnspecified Kind = iota
	KindNull
	KindBool
	KindInt
	KindUint
	KindDouble
	KindBytes
	KindString
	KindDuration
	KindTimestamp
	KindList
	KindMap
	KindStruct
	KindType
	KindEnum
	KindOpaque
	KindOptional
	KindError
	KindUnknown
	KindDyn
	KindAny
	// There is no separate wrapper Kind: wrapper types carry a Primitive
	// field identifying which of {bool,int,uint,double,bytes,string} they
	// wrap, and report that primitive's Kind. The Kind of a wrapper *value*
	// is null (unset) or the wrapped primitive's Kind (set) — see
	// internal/types.WrapperType.
	kindCount
)

var kindNames = [kindCount]string{
	KindUnspecified: "unspecified",
	KindNull:        "null",
	KindBool:        "bool",
	KindInt:         "int",
	KindUint:        "uint",
	KindDouble:      "double",
	KindBytes:       "bytes",
	KindString:      "string",
	KindDuration:    "duration",
	KindTimestamp:   "timestamp",
	KindList:        "list",
	KindMap:         "map",
	KindStruct:      "struct",
	KindType:        "type",
	KindEnum:        "enum",
	KindOpaque:      "opaque",
	KindOptional:    "optional",
	KindError:       "error",
	KindUnknown:     "unknown",
	KindDyn:         "dyn",
	KindAny:         "any",
}

// String renders the canonical lowercase name used in type names and
// debug output (e.g. "list(int)" composes Kind names, see types.Type.Name).
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "invalid"
}

// IsNumeric reports whether k is one of the three cross-comparable numeric
// kinds (int, uint, double). Equality between these is defined by
// mathematical value, not representation — see spec §4.4.2.
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindUint || k == KindDouble
}

// Primitive is the closed subset of Kind that wrapper types and protobuf
// scalar fields range over.
type Primitive uint8

const (
	PrimitiveUnspecified Primitive = iota
	PrimitiveBool
	PrimitiveInt
	PrimitiveUint
	PrimitiveDouble
	PrimitiveBytes
	PrimitiveString
)

// Kind returns the Kind this primitive corresponds to.
func (p Primitive) Kind() Kind {
	switch p {
	case PrimitiveBool:
		return KindBool
	case PrimitiveInt:
		return KindInt
	case PrimitiveUint:
		return KindUint
	case PrimitiveDouble:
		return KindDouble
	case PrimitiveBytes:
		return KindBytes
	case PrimitiveString:
		return KindString
	default:
		return KindUnspecified
	}
}

func (p Primitive) String() string {
	return p.Kind().String()
}
