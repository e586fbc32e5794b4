package structbridge

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/types"
	"github.com/oxhq/celval/internal/value"
)

// baseAdapter is a plain map-backed value.StructValue, grounded on
// providers/base.Provider's embed-and-override shape: every method here
// is a sensible default (HasField via map lookup, ForEachField via sorted
// key iteration for deterministic output) that a schema-specific adapter
// can leave untouched, the way morfx's language providers leave most of
// base.Provider's methods untouched and override only AST-specific ones.
// MapAdapter is exactly such an embedder that overrides nothing.
type baseAdapter struct {
	t      types.Type
	fields map[string]fieldSlot
}

type fieldSlot struct {
	number int32
	value  value.Value
}

func newBaseAdapter(t types.Type) baseAdapter {
	return baseAdapter{t: t, fields: make(map[string]fieldSlot)}
}

func (b *baseAdapter) set(name string, number int32, v value.Value) {
	b.fields[name] = fieldSlot{number: number, value: v}
}

func (b *baseAdapter) Kind() core.Kind  { return core.KindStruct }
func (b *baseAdapter) Type() types.Type { return b.t }
func (b *baseAdapter) FullName() string { return b.t.Name() }

func (b *baseAdapter) GetFieldByName(name string) value.Value {
	slot, ok := b.fields[name]
	if !ok {
		return value.NewError(core.CodeNotFound, fmt.Sprintf("no such field: %s.%s", b.FullName(), name))
	}
	return slot.value
}

func (b *baseAdapter) GetFieldByNumber(number int32) value.Value {
	for _, slot := range b.fields {
		if slot.number == number {
			return slot.value
		}
	}
	return value.NewError(core.CodeNotFound, fmt.Sprintf("no field with number %d on %s", number, b.FullName()))
}

func (b *baseAdapter) HasFieldByName(name string) bool {
	_, ok := b.fields[name]
	return ok
}

func (b *baseAdapter) HasFieldByNumber(number int32) bool {
	for _, slot := range b.fields {
		if slot.number == number {
			return true
		}
	}
	return false
}

func (b *baseAdapter) sortedNames() []string {
	names := make([]string, 0, len(b.fields))
	for name := range b.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *baseAdapter) ForEachField(fn func(name string, number int32, v value.Value) bool) {
	for _, name := range b.sortedNames() {
		slot := b.fields[name]
		if !fn(name, slot.number, slot.value) {
			return
		}
	}
}

func (b *baseAdapter) Qualify(qualifiers []value.Qualifier, scratch *value.Value) (value.Value, []value.Qualifier, error) {
	return qualifyField(b, qualifiers, scratch)
}

func (b *baseAdapter) DebugString() string {
	var sb strings.Builder
	sb.WriteString(b.FullName())
	sb.WriteByte('{')
	for i, name := range b.sortedNames() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(b.fields[name].value.DebugString())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (b *baseAdapter) Equal(other value.Value) value.Value { return structEqual(b, other) }

func (b *baseAdapter) SerializeTo(w io.Writer) (int, error) { return serializeStructFields(w, b) }

func (b *baseAdapter) SerializedSize() int {
	cw := &countingWriter{}
	_, _ = serializeStructFields(cw, b)
	return cw.n
}

func (b *baseAdapter) ConvertToJSON() (any, error) { return structToJSON(b) }

func (b *baseAdapter) ConvertToAny(prefix string) (value.Value, error) { return structToAny(b, prefix) }

func (b *baseAdapter) IsZeroValue() bool { return len(b.fields) == 0 }
