package structbridge

import (
	"fmt"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/reflect"
	"github.com/oxhq/celval/internal/types"
	"github.com/oxhq/celval/internal/value"
)

// MapAdapter is the plain-map struct-value backing spec §4.7 names for
// hosts that don't carry protobuf descriptors: tests, and embedders that
// want struct-kind values without pulling in a .proto schema. It embeds
// baseAdapter and overrides nothing, the same way a morfx language
// provider can embed base.Provider and rely entirely on its defaults.
type MapAdapter struct {
	baseAdapter
}

// NewMapAdapter constructs an empty MapAdapter for the struct type t.
// Fields are populated via a MapStructBuilder, not directly, so schema
// checks (field exists, number matches) run at construction time rather
// than being the caller's responsibility.
func NewMapAdapter(t types.Type) *MapAdapter {
	return &MapAdapter{baseAdapter: newBaseAdapter(t)}
}

// MapStructBuilder accumulates fields for a MapAdapter against a
// reflect.TypeIntrospector's schema, checking each field's declared kind
// on the way in (spec §4.7's narrowing-on-write rule, generalized here
// from int32-narrowing specifically to "the field kind the schema
// declares"). Single-use like value.ListBuilder/MapBuilder.
type MapStructBuilder struct {
	adapter *MapAdapter
	schema  reflect.TypeIntrospector
	built   bool
}

// NewMapStructBuilder constructs a builder for structTypeName, resolved
// against schema (typically a *reflect.StaticSchema or a reflect.Chain).
func NewMapStructBuilder(structTypeName string, structType types.Type, schema reflect.TypeIntrospector) *MapStructBuilder {
	return &MapStructBuilder{
		adapter: NewMapAdapter(structType),
		schema:  schema,
	}
}

func (b *MapStructBuilder) SetField(name string, v value.Value) error {
	if b.built {
		return core.ErrBuilderConsumed
	}
	field, ok := b.schema.LookupField(b.adapter.FullName(), name)
	if !ok {
		return &value.OpError{Code: core.CodeNotFound, Message: fmt.Sprintf("no such field: %s.%s", b.adapter.FullName(), name)}
	}
	if err := checkFieldKind(field, v); err != nil {
		return err
	}
	b.adapter.set(name, field.Number, v)
	return nil
}

func (b *MapStructBuilder) SetFieldByNumber(number int32, v value.Value) error {
	if b.built {
		return core.ErrBuilderConsumed
	}
	for _, field := range fieldsOfSchema(b.schema, b.adapter.FullName()) {
		if field.Number == number {
			if err := checkFieldKind(field, v); err != nil {
				return err
			}
			b.adapter.set(field.Name, number, v)
			return nil
		}
	}
	return &value.OpError{Code: core.CodeNotFound, Message: fmt.Sprintf("no field with number %d on %s", number, b.adapter.FullName())}
}

func (b *MapStructBuilder) Build() (value.Value, error) {
	if b.built {
		return nil, core.ErrBuilderConsumed
	}
	b.built = true
	return b.adapter, nil
}

// checkFieldKind enforces that a value assigned to a field at least has
// the field's declared Kind. It does no numeric range check: a plain
// map-backed struct has no 32-bit representation to overflow, and no
// package here writes into protobuf fields (ProtoAdapter is read-only and
// ProtoReflector.StructBuilder is unimplemented), so int32 narrowing is
// not checked anywhere.
func checkFieldKind(field reflect.FieldInfo, v value.Value) error {
	if field.Type == nil {
		return nil
	}
	if field.Type.Kind() == core.KindDyn {
		return nil
	}
	if v.Kind() != field.Type.Kind() {
		return &value.OpError{Code: core.CodeInvalidArgument, Message: fmt.Sprintf("field %q expects kind %s, got %s", field.Name, field.Type.Kind(), v.Kind())}
	}
	return nil
}

// fieldsOfSchema returns the field enumeration MapStructBuilder needs for
// number-keyed lookup. Only *reflect.StaticSchema exposes one (Fields); a
// bare TypeIntrospector only offers name-keyed lookup, so for any other
// schema this returns nil and SetFieldByNumber reports not found.
func fieldsOfSchema(schema reflect.TypeIntrospector, structTypeName string) []reflect.FieldInfo {
	if s, ok := schema.(*reflect.StaticSchema); ok {
		return s.Fields(structTypeName)
	}
	return nil
}
