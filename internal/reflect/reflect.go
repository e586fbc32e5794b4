// Package reflect implements celval's schema-introspection and
// runtime-reflection interfaces (spec §4.6, C6): the static side answers
// "what type does this name denote" and "what field does this name denote
// on this struct type"; the runtime side additionally hands out builders
// and deserializes type-URL-tagged bytes.
//
// Neither interface is implemented here. Concrete backings — a protobuf
// descriptor walk, a plain Go map schema — live in internal/structbridge
// (C7), which is the only package that needs to depend on a schema
// format. reflect stays format-agnostic, the same way morfx's
// internal/registry stays language-agnostic and only the provider.
// LanguageProvider implementations know about Go, Python, etc.
package reflect

import (
	"fmt"

	"github.com/oxhq/celval/internal/types"
	"github.com/oxhq/celval/internal/value"
)

// FieldInfo is what TypeIntrospector.LookupField returns for a struct
// field: its canonical name, its wire field number (spec §4.7's narrowing
// and presence rules are keyed off this), and its declared type.
type FieldInfo struct {
	Name   string
	Number int32
	Type   types.Type
}

// TypeIntrospector is the static schema side (spec §4.6): given a
// qualified name, returns the corresponding type, or ok=false if the name
// is not known to this introspector. Given a struct type's full name and a
// field name, returns the field's schema, or ok=false if the struct or the
// field is unknown.
type TypeIntrospector interface {
	LookupType(qualifiedName string) (types.Type, bool)
	LookupField(structTypeName, fieldName string) (FieldInfo, bool)
}

// StructBuilder accumulates fields into a struct value (spec §4.7's
// narrowing-write rules apply at SetField/SetFieldByNumber time, not at
// Build). Single-use, like value.ListBuilder/MapBuilder: a second Build
// call, or any mutating call after Build, returns core.ErrBuilderConsumed.
type StructBuilder interface {
	SetField(name string, v value.Value) error
	SetFieldByNumber(number int32, v value.Value) error
	Build() (value.Value, error)
}

// TypeReflector is the runtime schema side (spec §4.6): in addition to
// everything TypeIntrospector answers, it hands out builders for list,
// map, and struct values, and deserializes type-URL-tagged bytes into a
// value (the Any payload path, spec §6.3).
type TypeReflector interface {
	TypeIntrospector

	ListBuilder(elem types.Type) *value.ListBuilder
	MapBuilder(key, val types.Type) *value.MapBuilder
	StructBuilder(structTypeName string) (StructBuilder, error)
	DeserializeAny(typeURL string, data []byte) (value.Value, error)
}

// Chain composes an ordered stack of TypeReflectors and tries each in
// turn, exactly as morfx's Registry.GetProvider walks name, then alias,
// then extension lookups until one hits: here every lookup walks the
// chain front-to-back and returns the first reflector's answer that says
// ok=true, so earlier entries shadow later ones.
type Chain struct {
	reflectors []TypeReflector
}

// NewChain builds a Chain trying reflectors in the given order.
func NewChain(reflectors ...TypeReflector) *Chain {
	return &Chain{reflectors: reflectors}
}

func (c *Chain) LookupType(qualifiedName string) (types.Type, bool) {
	for _, r := range c.reflectors {
		if t, ok := r.LookupType(qualifiedName); ok {
			return t, true
		}
	}
	return nil, false
}

func (c *Chain) LookupField(structTypeName, fieldName string) (FieldInfo, bool) {
	for _, r := range c.reflectors {
		if f, ok := r.LookupField(structTypeName, fieldName); ok {
			return f, true
		}
	}
	return FieldInfo{}, false
}

// ListBuilder returns the first reflector's builder; every reflector in a
// Chain shares one underlying type factory in practice, so which one
// answers does not matter for interning correctness.
func (c *Chain) ListBuilder(elem types.Type) *value.ListBuilder {
	if len(c.reflectors) == 0 {
		return nil
	}
	return c.reflectors[0].ListBuilder(elem)
}

func (c *Chain) MapBuilder(key, val types.Type) *value.MapBuilder {
	if len(c.reflectors) == 0 {
		return nil
	}
	return c.reflectors[0].MapBuilder(key, val)
}

// StructBuilder tries each reflector in order, returning the first one
// that recognizes structTypeName; this is the one method where chain
// order matters beyond tie-breaking, since only the reflector that owns
// the struct's schema can build it.
func (c *Chain) StructBuilder(structTypeName string) (StructBuilder, error) {
	var lastErr error
	for _, r := range c.reflectors {
		b, err := r.StructBuilder(structTypeName)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("reflect: no reflector in chain recognizes struct type %q", structTypeName)
	}
	return nil, lastErr
}

func (c *Chain) DeserializeAny(typeURL string, data []byte) (value.Value, error) {
	var lastErr error
	for _, r := range c.reflectors {
		v, err := r.DeserializeAny(typeURL, data)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("reflect: no reflector in chain handles type URL %q", typeURL)
	}
	return nil, lastErr
}
