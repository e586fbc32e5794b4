package structbridge

import (
	"fmt"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/factory"
	"github.com/oxhq/celval/internal/reflect"
	"github.com/oxhq/celval/internal/types"
	"github.com/oxhq/celval/internal/value"
)

// MapReflector is the concrete reflect.TypeReflector backing every
// MapAdapter struct: it resolves names through a *reflect.StaticSchema
// and hands out builders through an embedded *factory.ValueFactory, the
// two collaborators MapAdapter needs (spec §4.6's runtime schema side
// applied to the plain-map struct kind). There is no descriptor to parse,
// so DeserializeAny handles no type URL at all: it reports unimplemented
// for every input, including the "google.protobuf.Struct" payloads this
// package itself produces (structToAny/serializeStructFields).
type MapReflector struct {
	*factory.ValueFactory
	schema *reflect.StaticSchema
}

// NewMapReflector constructs a MapReflector bound to schema and vf.
func NewMapReflector(vf *factory.ValueFactory, schema *reflect.StaticSchema) *MapReflector {
	return &MapReflector{ValueFactory: vf, schema: schema}
}

func (r *MapReflector) LookupType(qualifiedName string) (types.Type, bool) {
	return r.schema.LookupType(qualifiedName)
}

func (r *MapReflector) LookupField(structTypeName, fieldName string) (reflect.FieldInfo, bool) {
	return r.schema.LookupField(structTypeName, fieldName)
}

func (r *MapReflector) ListBuilder(elem types.Type) *value.ListBuilder {
	return r.ValueFactory.ListBuilder(elem)
}

func (r *MapReflector) MapBuilder(key, val types.Type) *value.MapBuilder {
	return r.ValueFactory.MapBuilder(key, val)
}

func (r *MapReflector) StructBuilder(structTypeName string) (reflect.StructBuilder, error) {
	t, ok := r.schema.LookupType(structTypeName)
	if !ok {
		return nil, fmt.Errorf("structbridge: unknown struct type %q", structTypeName)
	}
	return NewMapStructBuilder(structTypeName, t, r.schema), nil
}

func (r *MapReflector) DeserializeAny(typeURL string, data []byte) (value.Value, error) {
	return nil, &value.OpError{
		Code:    core.CodeUnimplemented,
		Message: fmt.Sprintf("structbridge: MapReflector cannot deserialize type URL %q", typeURL),
	}
}
