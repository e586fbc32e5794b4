package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "list", KindList.String())
	assert.Equal(t, "dyn", KindDyn.String())
	assert.Equal(t, "invalid", Kind(250).String())
}

func TestKindIsNumeric(t *testing.T) {
	assert.True(t, KindInt.IsNumeric())
	assert.True(t, KindUint.IsNumeric())
	assert.True(t, KindDouble.IsNumeric())
	assert.False(t, KindString.IsNumeric())
	assert.False(t, KindBool.IsNumeric())
}

func TestPrimitiveKind(t *testing.T) {
	assert.Equal(t, KindBool, PrimitiveBool.Kind())
	assert.Equal(t, KindString, PrimitiveString.Kind())
	assert.Equal(t, "int", PrimitiveInt.String())
}
