package reflect

import (
	"fmt"
	"sync"

	"github.com/oxhq/celval/internal/types"
)

// StaticSchema is a plain in-memory TypeIntrospector: types and struct
// fields are registered explicitly before use. It is grounded directly on
// internal/registry.Registry's RWMutex-guarded maps (there: name, alias,
// extension; here: type name, and struct-name+field-name), and plays the
// same role MapAdapter's hosts need when there is no protobuf descriptor
// to walk — tests, and any embedder that wants struct-kind values backed
// by a plain Go map instead of a protobuf message.
type StaticSchema struct {
	mu     sync.RWMutex
	types  map[string]types.Type
	fields map[string]map[string]FieldInfo
}

// NewStaticSchema constructs an empty StaticSchema.
func NewStaticSchema() *StaticSchema {
	return &StaticSchema{
		types:  make(map[string]types.Type),
		fields: make(map[string]map[string]FieldInfo),
	}
}

// RegisterType makes t available under its qualified name. Re-registering
// the same name with a different type is rejected, mirroring Registry's
// "already registered" conflict check.
func (s *StaticSchema) RegisterType(qualifiedName string, t types.Type) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.types[qualifiedName]; ok && existing != t {
		return fmt.Errorf("reflect: type %q already registered", qualifiedName)
	}
	s.types[qualifiedName] = t
	return nil
}

// RegisterField declares one field of a struct type. Field numbers must
// be unique within a struct type; names must be unique within a struct
// type. Both are checked because either one is how a caller addresses the
// field (spec §4.7's two addressing modes).
func (s *StaticSchema) RegisterField(structTypeName string, field FieldInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byName, ok := s.fields[structTypeName]
	if !ok {
		byName = make(map[string]FieldInfo)
		s.fields[structTypeName] = byName
	}
	if existing, ok := byName[field.Name]; ok && existing != field {
		return fmt.Errorf("reflect: field %q on %q already registered", field.Name, structTypeName)
	}
	for name, f := range byName {
		if name != field.Name && f.Number == field.Number {
			return fmt.Errorf("reflect: field number %d on %q conflicts with field %q", field.Number, structTypeName, name)
		}
	}
	byName[field.Name] = field
	return nil
}

func (s *StaticSchema) LookupType(qualifiedName string) (types.Type, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.types[qualifiedName]
	return t, ok
}

func (s *StaticSchema) LookupField(structTypeName, fieldName string) (FieldInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byName, ok := s.fields[structTypeName]
	if !ok {
		return FieldInfo{}, false
	}
	f, ok := byName[fieldName]
	return f, ok
}

// LookupFieldByNumber finds a field by its wire number, the other
// addressing mode spec §4.7 requires (struct.GetFieldByNumber).
func (s *StaticSchema) LookupFieldByNumber(structTypeName string, number int32) (FieldInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byName, ok := s.fields[structTypeName]
	if !ok {
		return FieldInfo{}, false
	}
	for _, f := range byName {
		if f.Number == number {
			return f, true
		}
	}
	return FieldInfo{}, false
}

// Fields returns every registered field of structTypeName, for
// ForEachField-style iteration; order is not guaranteed, matching
// Registry.ListProviders' unordered map-range return.
func (s *StaticSchema) Fields(structTypeName string) []FieldInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byName := s.fields[structTypeName]
	out := make([]FieldInfo, 0, len(byName))
	for _, f := range byName {
		out = append(out, f)
	}
	return out
}
