package activation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/celval/internal/value"
)

func TestMapEagerBinding(t *testing.T) {
	m := NewMap()
	m.BindVariable("x", value.Int(42))

	v, ok := m.FindVariable("x")
	require.True(t, ok)
	assert.Equal(t, value.Int(42), v)

	_, ok = m.FindVariable("missing")
	assert.False(t, ok)
}

func TestMapLazyBindingResolvesOnce(t *testing.T) {
	m := NewMap()
	calls := 0
	m.BindLazyVariable("y", func() (value.Value, bool) {
		calls++
		return value.Int(int64(calls)), true
	})

	v1, ok := m.FindVariable("y")
	require.True(t, ok)
	v2, ok := m.FindVariable("y")
	require.True(t, ok)

	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, calls)
}

func TestMapBindVariableOverwritesLazy(t *testing.T) {
	m := NewMap()
	m.BindLazyVariable("z", func() (value.Value, bool) { return value.Int(1), true })
	m.BindVariable("z", value.Int(2))

	v, ok := m.FindVariable("z")
	require.True(t, ok)
	assert.Equal(t, value.Int(2), v)
}

func TestMapFunctionOverloadsAccumulate(t *testing.T) {
	m := NewMap()
	m.BindFunction("size", "overload-a")
	m.BindFunction("size", "overload-b")

	assert.Equal(t, []Overload{"overload-a", "overload-b"}, m.FindFunctionOverloads("size"))
	assert.Nil(t, m.FindFunctionOverloads("missing"))
}

func TestChainShadowsLocalOverBase(t *testing.T) {
	base := NewMap()
	base.BindVariable("x", value.Int(1))
	local := NewMap()
	local.BindVariable("x", value.Int(2))

	chain := NewChain(local, base)
	v, ok := chain.FindVariable("x")
	require.True(t, ok)
	assert.Equal(t, value.Int(2), v)
}

func TestChainFallsThroughToBase(t *testing.T) {
	base := NewMap()
	base.BindVariable("y", value.Int(7))
	local := NewMap()

	chain := NewChain(local, base)
	v, ok := chain.FindVariable("y")
	require.True(t, ok)
	assert.Equal(t, value.Int(7), v)
}

func TestChainFindFunctionOverloadsConcatenates(t *testing.T) {
	base := NewMap()
	base.BindFunction("f", "base-overload")
	local := NewMap()
	local.BindFunction("f", "local-overload")

	chain := NewChain(local, base)
	assert.Equal(t, []Overload{"local-overload", "base-overload"}, chain.FindFunctionOverloads("f"))
}

func TestWithVariableShadowsBase(t *testing.T) {
	base := NewMap()
	base.BindVariable("x", value.Int(1))

	chain := WithVariable(base, "x", value.Int(99))
	v, ok := chain.FindVariable("x")
	require.True(t, ok)
	assert.Equal(t, value.Int(99), v)

	_, ok = chain.FindVariable("x")
	require.True(t, ok)
}
