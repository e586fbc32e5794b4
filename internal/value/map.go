package value

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/types"
)

// MapValue is the capability interface map-kind values expose in addition
// to Value (spec §3.3, §4.4.3). Map keys are restricted to {bool, int,
// uint, string} (spec §3.2); uniqueness and equality are judged within the
// key's own kind, never cross-kind.
type MapValue interface {
	Value
	Size() int64
	IsEmpty() bool
	Get(k Value, scratch *Value) Value
	Find(k Value) (Value, bool)
	Has(k Value) Value
	ListKeys() Value
	ForEach(fn func(k, v Value) bool)
}

// mapKey is a comparable Go value standing in for a celval map key, so a
// native Go map can back nativeMap's storage directly.
type mapKey struct {
	kind core.Kind
	b    bool
	i    int64
	u    uint64
	s    string
}

func keyFor(v Value) (mapKey, error) {
	switch kv := v.(type) {
	case boolValue:
		return mapKey{kind: core.KindBool, b: bool(kv)}, nil
	case intValue:
		return mapKey{kind: core.KindInt, i: int64(kv)}, nil
	case uintValue:
		return mapKey{kind: core.KindUint, u: uint64(kv)}, nil
	case stringValue:
		return mapKey{kind: core.KindString, s: kv.s}, nil
	default:
		return mapKey{}, invalidArgument("unsupported map key kind %s", v.Kind())
	}
}

func mapKeyJSONString(k Value) (string, error) {
	switch kv := k.(type) {
	case stringValue:
		return kv.s, nil
	case boolValue:
		return strconv.FormatBool(bool(kv)), nil
	case intValue:
		return strconv.FormatInt(int64(kv), 10), nil
	case uintValue:
		return strconv.FormatUint(uint64(kv), 10), nil
	default:
		return "", invalidArgument("unsupported map key kind %s for JSON", k.Kind())
	}
}

type mapEntry struct {
	key   Value
	value Value
}

type nativeMap struct {
	t         types.Type
	keysType  types.Type // factory-interned list<dyn>, for ListKeys()
	entries   map[mapKey]mapEntry
}

// NewMap constructs a native map value from already-validated, distinct
// entries. mapType must be the factory-interned map<K,V> type; keysType
// must be the factory-interned list<dyn> type ListKeys() returns.
func NewMap(mapType, keysType types.Type, entries map[mapKey]mapEntry) Value {
	return &nativeMap{t: mapType, keysType: keysType, entries: entries}
}

func (m *nativeMap) Kind() core.Kind  { return core.KindMap }
func (m *nativeMap) Type() types.Type { return m.t }
func (m *nativeMap) Size() int64      { return int64(len(m.entries)) }
func (m *nativeMap) IsEmpty() bool    { return len(m.entries) == 0 }

func (m *nativeMap) Get(k Value, _ *Value) Value {
	key, err := keyFor(k)
	if err != nil {
		return FromOpError(err.(*OpError))
	}
	e, ok := m.entries[key]
	if !ok {
		return NewError(core.CodeNotFound, "no such key: "+k.DebugString())
	}
	return e.value
}

func (m *nativeMap) Find(k Value) (Value, bool) {
	key, err := keyFor(k)
	if err != nil {
		return nil, false
	}
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (m *nativeMap) Has(k Value) Value {
	_, ok := m.Find(k)
	return Bool(ok)
}

func (m *nativeMap) ListKeys() Value {
	items := make([]Value, 0, len(m.entries))
	for _, e := range m.entries {
		items = append(items, e.key)
	}
	// Ordering is unspecified across copies (spec §9 Open Question) but a
	// single value's own debug/iteration output should be internally
	// consistent call to call; listing in sorted order achieves that
	// without claiming an ordering guarantee the spec doesn't make.
	sort.Slice(items, func(i, j int) bool { return items[i].DebugString() < items[j].DebugString() })
	return &nativeList{t: m.keysType, items: items}
}

func (m *nativeMap) ForEach(fn func(k, v Value) bool) {
	for _, e := range m.sortedEntries() {
		if !fn(e.key, e.value) {
			return
		}
	}
}

func (m *nativeMap) sortedEntries() []mapEntry {
	out := make([]mapEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key.DebugString() < out[j].key.DebugString() })
	return out
}

func (m *nativeMap) DebugString() string {
	entries := m.sortedEntries()
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.key.DebugString() + ": " + e.value.DebugString()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (m *nativeMap) Equal(other Value) Value {
	if p, ok := Propagate(m, other); ok {
		return p
	}
	o, ok := other.(MapValue)
	if !ok {
		return Bool(false)
	}
	if m.Size() != o.Size() {
		return Bool(false)
	}
	for _, e := range m.entries {
		ov, present := o.Find(e.key)
		if !present {
			return Bool(false)
		}
		cmp := e.value.Equal(ov)
		b, isBool := cmp.(boolValue)
		if !isBool {
			return cmp
		}
		if !bool(b) {
			return Bool(false)
		}
	}
	return Bool(true)
}

func (m *nativeMap) SerializeTo(w io.Writer) (int, error) {
	fields, err := m.jsonFields()
	if err != nil {
		return 0, err
	}
	return serializeStructMessage(w, fields)
}

func (m *nativeMap) SerializedSize() int {
	fields, err := m.jsonFields()
	if err != nil {
		return 0
	}
	var counter countingWriter
	_, _ = serializeStructMessage(&counter, fields)
	return counter.n
}

func (m *nativeMap) jsonFields() (map[string]any, error) {
	out := make(map[string]any, len(m.entries))
	for _, e := range m.entries {
		ks, err := mapKeyJSONString(e.key)
		if err != nil {
			return nil, err
		}
		vj, err := e.value.ConvertToJSON()
		if err != nil {
			return nil, err
		}
		out[ks] = vj
	}
	return out, nil
}

func (m *nativeMap) ConvertToJSON() (any, error) { return m.jsonFields() }

func (m *nativeMap) ConvertToAny(prefix string) (Value, error) {
	return convertToAnyViaSerialize(m, prefix, "google.protobuf.Struct")
}

func (m *nativeMap) IsZeroValue() bool { return len(m.entries) == 0 }

// MapBuilder accumulates (key, value) pairs into an immutable map value
// (spec §4.6). Duplicate keys are rejected at Put time, not silently
// overwritten. Single-use: Build may only be called once.
type MapBuilder struct {
	t        types.Type
	keysType types.Type
	entries  map[mapKey]mapEntry
	built    bool
}

// NewMapBuilder constructs a builder for the given factory-interned
// map<K,V> type. keysType is the factory-interned list<dyn> type the
// built map's ListKeys() will return.
func NewMapBuilder(mapType, keysType types.Type) *MapBuilder {
	return &MapBuilder{t: mapType, keysType: keysType, entries: make(map[mapKey]mapEntry)}
}

// Put inserts a (key, value) pair. A duplicate key, or a key outside
// {bool, int, uint, string}, yields an invalid-argument error (spec §4.6).
func (b *MapBuilder) Put(k, v Value) error {
	if b.built {
		return core.ErrBuilderConsumed
	}
	key, err := keyFor(k)
	if err != nil {
		return err
	}
	if _, exists := b.entries[key]; exists {
		return invalidArgument("duplicate map key: %s", k.DebugString())
	}
	b.entries[key] = mapEntry{key: k, value: v}
	return nil
}

// Build finalizes the builder into an immutable map value.
func (b *MapBuilder) Build() (Value, error) {
	if b.built {
		return nil, core.ErrBuilderConsumed
	}
	b.built = true
	return &nativeMap{t: b.t, keysType: b.keysType, entries: b.entries}, nil
}
