package value

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/types"
)

// TrailStepKind discriminates one step of an AttributeTrail.
type TrailStepKind uint8

const (
	TrailStepField TrailStepKind = iota
	TrailStepIndex
	TrailStepMapKey
)

// TrailStep is one selector in an attribute trail: a field name, a list
// index, or a stringified map key.
type TrailStep struct {
	Kind      TrailStepKind
	FieldName string
	Index     int64
	MapKey    string
}

// AttributeTrail identifies a piece of input whose value was not yet
// available when evaluation needed it (spec §4.4.5, glossary). It starts
// at a variable name and proceeds through field/index/map-key selectors.
type AttributeTrail struct {
	Variable string
	Steps    []TrailStep
}

func (t AttributeTrail) String() string {
	var b strings.Builder
	b.WriteString(t.Variable)
	for _, s := range t.Steps {
		switch s.Kind {
		case TrailStepField:
			b.WriteByte('.')
			b.WriteString(s.FieldName)
		case TrailStepIndex:
			fmt.Fprintf(&b, "[%d]", s.Index)
		case TrailStepMapKey:
			fmt.Fprintf(&b, "[%q]", s.MapKey)
		}
	}
	return b.String()
}

// UnknownValue is the capability interface unknown-kind values expose in
// addition to Value (spec §4.4.5).
type UnknownValue interface {
	Value
	Trails() []AttributeTrail
	FunctionMarkers() []string
}

type unknownValue struct {
	trails  []AttributeTrail
	markers []string
}

// NewUnknown constructs an unknown value carrying the given attribute
// trails.
func NewUnknown(trails ...AttributeTrail) Value {
	return &unknownValue{trails: trails}
}

// NewUnknownFunctionResult constructs an unknown value carrying a single
// deferred function-call marker (spec §4.4.5).
func NewUnknownFunctionResult(name string) Value {
	return &unknownValue{markers: []string{name}}
}

func (u *unknownValue) Kind() core.Kind             { return core.KindUnknown }
func (u *unknownValue) Type() types.Type            { return types.Unknown() }
func (u *unknownValue) Trails() []AttributeTrail     { return u.trails }
func (u *unknownValue) FunctionMarkers() []string    { return u.markers }
func (u *unknownValue) DebugString() string {
	parts := make([]string, 0, len(u.trails)+len(u.markers))
	for _, t := range u.trails {
		parts = append(parts, t.String())
	}
	parts = append(parts, u.markers...)
	sort.Strings(parts)
	return "unknown{" + strings.Join(parts, ", ") + "}"
}

// Equal against an unknown value propagates it (or the stronger operand,
// per spec §7's precedence rules) rather than comparing structurally.
func (u *unknownValue) Equal(other Value) Value {
	p, _ := Propagate(u, other)
	return p
}
func (u *unknownValue) SerializeTo(io.Writer) (int, error) {
	return 0, &OpError{Code: core.CodeUnimplemented, Message: "unknown values are not serializable"}
}
func (u *unknownValue) SerializedSize() int { return 0 }
func (u *unknownValue) ConvertToJSON() (any, error) {
	return nil, &OpError{Code: core.CodeUnimplemented, Message: "unknown values have no JSON form"}
}
func (u *unknownValue) ConvertToAny(string) (Value, error) {
	return nil, &OpError{Code: core.CodeUnimplemented, Message: "unknown values are not serializable"}
}
func (u *unknownValue) IsZeroValue() bool { return false }

// mergeUnknown implements spec §7's unknown merge: the union of both
// operands' attribute trails and function markers, deduplicated.
func mergeUnknown(a, b UnknownValue) Value {
	seen := make(map[string]struct{})
	var trails []AttributeTrail
	var markers []string

	addTrail := func(t AttributeTrail) {
		k := "T:" + t.String()
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		trails = append(trails, t)
	}
	addMarker := func(m string) {
		k := "M:" + m
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		markers = append(markers, m)
	}

	for _, t := range a.Trails() {
		addTrail(t)
	}
	for _, t := range b.Trails() {
		addTrail(t)
	}
	for _, m := range a.FunctionMarkers() {
		addMarker(m)
	}
	for _, m := range b.FunctionMarkers() {
		addMarker(m)
	}
	return &unknownValue{trails: trails, markers: markers}
}
