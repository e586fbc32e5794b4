package value

// QualifierKind discriminates one step of a qualifier chain passed to
// StructValue.Qualify.
type QualifierKind uint8

const (
	QualifierField QualifierKind = iota
	QualifierIndex
	QualifierMapKey
)

// Qualifier is one selector in a chained access expression such as
// `a.b.c[i].d` (spec §4.4.3's Qualify fast path).
type Qualifier struct {
	Kind        QualifierKind
	FieldName   string
	FieldNumber int32
	Index       int64
	MapKey      Value
	// PresenceTest, when true, asks Qualify to report presence instead of
	// dereferencing — used for `has(a.b.c)` expressions.
	PresenceTest bool
}

// StructValue is the capability interface struct-kind values expose in
// addition to Value (spec §3.3, §4.4.3). Concrete backings — the native
// map-style adapter and the protobuf-message adapter — live in
// internal/structbridge (C7); this package only names the contract every
// backing must satisfy, since the evaluator (an external collaborator)
// needs one interface regardless of which adapter produced the value.
type StructValue interface {
	Value
	FullName() string
	// GetFieldByName/Number return the field's value, or a not-found error
	// value if no such field exists (spec §4.4.3, §7).
	GetFieldByName(name string) Value
	GetFieldByNumber(number int32) Value
	HasFieldByName(name string) bool
	HasFieldByNumber(number int32) bool
	ForEachField(fn func(name string, number int32, v Value) bool)
	// Qualify consumes as much of qualifiers as this backing can handle
	// natively, returning the resulting value (or presence, when the last
	// consumed qualifier set PresenceTest) and the unconsumed remainder.
	// scratch is used per the container-read contract (spec §4.4.3).
	Qualify(qualifiers []Qualifier, scratch *Value) (Value, []Qualifier, error)
}
