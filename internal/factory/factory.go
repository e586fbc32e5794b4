// Package factory implements celval's TypeFactory/ValueFactory (spec
// §4.5, C5): the sole constructors for types and values, holding the
// memory manager every construction travels alongside (spec §4.1).
package factory

import (
	"github.com/oxhq/celval/internal/mem"
	"github.com/oxhq/celval/internal/types"
	"github.com/oxhq/celval/internal/value"
)

// TypeFactory returns cached builtin singletons and interns parameterized
// types. It is a thin named wrapper around types.Factory so that
// ValueFactory can embed it the way morfx's concrete providers embed
// BaseProvider — shared construction logic, selectively extended.
type TypeFactory struct {
	*types.Factory
}

// NewTypeFactory constructs a TypeFactory bound to mgr.
func NewTypeFactory(mgr mem.Manager) *TypeFactory {
	return &TypeFactory{Factory: types.NewFactory(mgr)}
}

// ValueFactory extends TypeFactory (spec §4.5) with the builtin zero
// values and the checked primitive constructors; it is the entry point
// evaluators use to build anything that isn't produced by a builder or a
// struct bridge.
type ValueFactory struct {
	*TypeFactory
}

// NewValueFactory constructs a ValueFactory bound to mgr.
func NewValueFactory(mgr mem.Manager) *ValueFactory {
	return &ValueFactory{TypeFactory: NewTypeFactory(mgr)}
}

// Manager returns the memory manager this factory (and its embedded
// TypeFactory) is bound to.
func (f *ValueFactory) Manager() mem.Manager { return f.TypeFactory.Manager() }

// Null, True, False and the zero containers are builtin singletons (spec
// §4.5): "returns builtin zero-values (null, empty bytes/string, the six
// zero containers of list<dyn>, map<dyn,dyn>, map<string,dyn>,
// optional<dyn>)".

// Null returns the null singleton value.
func (f *ValueFactory) Null() value.Value { return value.Null }

// EmptyBytes returns the zero-value (empty) bytes value.
func (f *ValueFactory) EmptyBytes() value.Value { return value.Bytes(nil) }

// EmptyString returns the zero-value (empty) string value.
func (f *ValueFactory) EmptyString() value.Value { return value.NewUncheckedString("") }

// EmptyListDyn returns the zero-value list<dyn>.
func (f *ValueFactory) EmptyListDyn() value.Value {
	return value.NewList(f.List(types.Dyn()), nil)
}

// EmptyMapDynDyn returns the zero-value map<dyn, dyn>.
func (f *ValueFactory) EmptyMapDynDyn() value.Value {
	return f.emptyMap(f.Map(types.Dyn(), types.Dyn()))
}

// EmptyMapStringDyn returns the zero-value map<string, dyn>.
func (f *ValueFactory) EmptyMapStringDyn() value.Value {
	return f.emptyMap(f.Map(types.String(), types.Dyn()))
}

// EmptyOptionalDyn returns the zero-value optional<dyn>, i.e. absent.
func (f *ValueFactory) EmptyOptionalDyn() value.Value {
	return value.Absent(f.Optional(types.Dyn()))
}

func (f *ValueFactory) emptyMap(mapType types.Type) value.Value {
	b := value.NewMapBuilder(mapType, f.List(types.Dyn()))
	built, err := b.Build()
	if err != nil {
		// An empty builder can never fail to build.
		panic(err)
	}
	return built
}

// NewCheckedString constructs a UTF-8-validated string value, or an
// invalid-argument OpError if s is not valid UTF-8 (spec §3.3, §8
// invariant 8).
func (f *ValueFactory) NewCheckedString(s string) (value.Value, error) {
	return value.NewCheckedString(s)
}

// NewDuration constructs a bounds-checked duration value (spec §3.3).
func (f *ValueFactory) NewDuration(seconds int64, nanos int32) (value.Value, error) {
	return value.NewDuration(seconds, nanos)
}

// NewTimestamp constructs a bounds-checked timestamp value (spec §3.3).
func (f *ValueFactory) NewTimestamp(seconds int64, nanos int32) (value.Value, error) {
	return value.NewTimestamp(seconds, nanos)
}

// ListBuilder returns a builder for a list<elem> value, interning the
// list type through the embedded TypeFactory.
func (f *ValueFactory) ListBuilder(elem types.Type) *value.ListBuilder {
	return value.NewListBuilder(f.List(elem))
}

// MapBuilder returns a builder for a map<key,value> value, interning both
// the map type and the list<dyn> type its ListKeys() will return.
func (f *ValueFactory) MapBuilder(key, val types.Type) *value.MapBuilder {
	return value.NewMapBuilder(f.Map(key, val), f.List(types.Dyn()))
}

// Present wraps v as optional<elem>'s present state, interning the
// optional type.
func (f *ValueFactory) Present(elem types.Type, v value.Value) value.Value {
	return value.Present(f.Optional(elem), v)
}

// Absent returns optional<elem>'s absent state, interning the optional
// type.
func (f *ValueFactory) Absent(elem types.Type) value.Value {
	return value.Absent(f.Optional(elem))
}
