package value

import (
	"io"
	"strings"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/types"
)

// ListValue is the capability interface list-kind values expose in
// addition to Value (spec §3.3, §4.4.3).
type ListValue interface {
	Value
	Size() int64
	IsEmpty() bool
	// Get returns the element at i, or an out-of-range error value if i is
	// outside [0, Size()). scratch is accepted per the container-read
	// contract (spec §4.4.3) but unused by the native list, whose elements
	// are already owned Values.
	Get(i int64, scratch *Value) Value
	// ForEach visits elements in order until fn returns false.
	ForEach(fn func(v Value) bool)
}

type nativeList struct {
	t     types.Type
	items []Value
}

// NewList constructs a native list value directly from a slice of
// already-built elements. listType must be the factory-interned list<E>
// type for the element kind.
func NewList(listType types.Type, items []Value) Value {
	return &nativeList{t: listType, items: items}
}

func (l *nativeList) Kind() core.Kind  { return core.KindList }
func (l *nativeList) Type() types.Type { return l.t }
func (l *nativeList) Size() int64      { return int64(len(l.items)) }
func (l *nativeList) IsEmpty() bool    { return len(l.items) == 0 }

func (l *nativeList) Get(i int64, _ *Value) Value {
	if i < 0 || i >= int64(len(l.items)) {
		return NewError(core.CodeOutOfRange, outOfRangeMsg(i, len(l.items)))
	}
	return l.items[i]
}

func (l *nativeList) ForEach(fn func(v Value) bool) {
	for _, v := range l.items {
		if !fn(v) {
			return
		}
	}
}

func (l *nativeList) DebugString() string {
	parts := make([]string, len(l.items))
	for i, v := range l.items {
		parts[i] = v.DebugString()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *nativeList) Equal(other Value) Value {
	if p, ok := Propagate(l, other); ok {
		return p
	}
	o, ok := other.(ListValue)
	if !ok {
		return Bool(false)
	}
	if l.Size() != o.Size() {
		return Bool(false)
	}
	for i := int64(0); i < l.Size(); i++ {
		var scratch Value
		cmp := l.items[i].Equal(o.Get(i, &scratch))
		b, isBool := cmp.(boolValue)
		if !isBool {
			// cmp is itself an error or unknown value; propagate it.
			return cmp
		}
		if !bool(b) {
			return Bool(false)
		}
	}
	return Bool(true)
}

func (l *nativeList) SerializeTo(w io.Writer) (int, error) {
	return serializeListValue(w, l)
}
func (l *nativeList) SerializedSize() int {
	var counter countingWriter
	_, _ = serializeListValue(&counter, l)
	return counter.n
}

func (l *nativeList) ConvertToJSON() (any, error) {
	out := make([]any, len(l.items))
	for i, v := range l.items {
		j, err := v.ConvertToJSON()
		if err != nil {
			return nil, err
		}
		out[i] = j
	}
	return out, nil
}

func (l *nativeList) ConvertToAny(prefix string) (Value, error) {
	return convertToAnyViaSerialize(l, prefix, "google.protobuf.ListValue")
}

func (l *nativeList) IsZeroValue() bool { return len(l.items) == 0 }

func outOfRangeMsg(i int64, size int) string {
	return "index " + FormatInt(i) + " out of range for list of size " + FormatInt(int64(size))
}

// ListBuilder accumulates elements into an immutable list value (spec
// §4.6). It is single-use: Build may only be called once.
type ListBuilder struct {
	t      types.Type
	items  []Value
	built  bool
}

// NewListBuilder constructs a builder for the given factory-interned
// list<E> type.
func NewListBuilder(listType types.Type) *ListBuilder {
	return &ListBuilder{t: listType}
}

// Reserve pre-allocates capacity for n elements.
func (b *ListBuilder) Reserve(n int) {
	if cap(b.items)-len(b.items) < n {
		grown := make([]Value, len(b.items), len(b.items)+n)
		copy(grown, b.items)
		b.items = grown
	}
}

// Add appends an element.
func (b *ListBuilder) Add(v Value) error {
	if b.built {
		return core.ErrBuilderConsumed
	}
	b.items = append(b.items, v)
	return nil
}

// Size reports the number of elements added so far.
func (b *ListBuilder) Size() int { return len(b.items) }

// Build finalizes the builder into an immutable list value.
func (b *ListBuilder) Build() (Value, error) {
	if b.built {
		return nil, core.ErrBuilderConsumed
	}
	b.built = true
	return &nativeList{t: b.t, items: b.items}, nil
}
