package types

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/mem"
)

func TestBuiltinSingletonsAreStable(t *testing.T) {
	assert.Same(t, Int(), Int())
	assert.Same(t, Dyn(), Dyn())
	assert.Equal(t, core.KindInt, Int().Kind())
	assert.Equal(t, "int", Int().Name())
	assert.Equal(t, "google.protobuf.Timestamp", Timestamp().Name())
}

func TestWrapperNames(t *testing.T) {
	assert.Equal(t, "google.protobuf.BoolValue", Wrapper(core.PrimitiveBool).Name())
	assert.Equal(t, "google.protobuf.Int64Value", Wrapper(core.PrimitiveInt).Name())
	assert.Equal(t, core.KindString, Wrapper(core.PrimitiveString).Kind())
}

func TestFactoryInternsParameterizedTypes(t *testing.T) {
	f := NewFactory(mem.NewRCManager())

	l1 := f.List(Int())
	l2 := f.List(Int())
	assert.Same(t, l1, l2, "two calls with equal arguments must return the same handle")
	assert.Equal(t, "list(int)", l1.Name())

	m1 := f.Map(String(), Int())
	m2 := f.Map(String(), Int())
	assert.Same(t, m1, m2)
	assert.Equal(t, "map(string, int)", m1.Name())

	o1 := f.Optional(Bool())
	o2 := f.Optional(Bool())
	assert.Same(t, o1, o2)

	s1 := f.Struct("acme.Widget")
	s2 := f.Struct("acme.Widget")
	assert.Same(t, s1, s2)

	e1 := f.Enum("acme.Color")
	e2 := f.Enum("acme.Color")
	assert.Same(t, e1, e2)
}

func TestFactoryInterningDistinguishesDifferentArguments(t *testing.T) {
	f := NewFactory(mem.NewRCManager())
	assert.NotSame(t, f.List(Int()), f.List(String()))
	assert.NotSame(t, f.Map(String(), Int()), f.Map(String(), Bool()))
}

func TestFactoryInterningIsConcurrencySafe(t *testing.T) {
	f := NewFactory(mem.NewRCManager())
	var wg sync.WaitGroup
	results := make([]Type, 64)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = f.List(Int())
		}()
	}
	wg.Wait()
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestListTypeAccessors(t *testing.T) {
	f := NewFactory(mem.NewRCManager())
	lt := f.List(Double())
	asList, ok := lt.(ListType)
	if assert.True(t, ok) {
		assert.Equal(t, Double(), asList.Elem())
	}
}

func TestOpaqueTypeIsNotInterned(t *testing.T) {
	a := NewOpaqueType("acme.Regex")
	b := NewOpaqueType("acme.Regex")
	assert.NotSame(t, a, b, "opaque types are host-constructed, not factory-interned")
	assert.Equal(t, core.KindOpaque, a.Kind())
}
