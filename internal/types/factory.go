package types

import (
	"sync"

	"github.com/oxhq/celval/internal/mem"
)

// Factory is the sole constructor for parameterized and host-schema types.
// It interns list<E>, map<K,V>, and optional<E> so two calls with equal
// arguments return the same handle (spec §3.2's invariant); struct<Name>
// and enum<Name> are interned per fully-qualified name for the same reason.
//
// A Factory carries a mem.Manager because spec §4.1 requires every factory
// to travel with the manager its evaluation uses, even though interning a
// fixed-size type descriptor does not itself need arena or refcount
// bookkeeping (type descriptors are never individually destroyed — they
// live for the factory's lifetime, like the builtin singletons they sit
// beside).
type Factory struct {
	mgr mem.Manager

	mu       sync.RWMutex
	lists    map[string]Type
	maps     map[string]Type
	optnls   map[string]Type
	structs  map[string]Type
	enums    map[string]Type
}

// NewFactory constructs a Factory bound to the given memory manager.
func NewFactory(mgr mem.Manager) *Factory {
	return &Factory{
		mgr:     mgr,
		lists:   make(map[string]Type),
		maps:    make(map[string]Type),
		optnls:  make(map[string]Type),
		structs: make(map[string]Type),
		enums:   make(map[string]Type),
	}
}

// Manager returns the memory manager this factory is bound to.
func (f *Factory) Manager() mem.Manager { return f.mgr }

// List returns the interned list<elem> type.
func (f *Factory) List(elem Type) Type {
	key := elem.Name()
	return internType(&f.mu, f.lists, key, func() Type { return &listType{elem: elem} })
}

// Map returns the interned map<key,value> type. Per spec §3.2, key must be
// one of {bool, int, uint, string}; the factory does not itself enforce
// this — enforcement lives in the value-construction path (§4.6 builders),
// since a Type alone cannot observe whether a caller respects the
// restriction, only values can violate it.
func (f *Factory) Map(key, value Type) Type {
	cacheKey := key.Name() + "|" + value.Name()
	return internType(&f.mu, f.maps, cacheKey, func() Type { return &mapType{key: key, value: value} })
}

// Optional returns the interned optional<elem> type.
func (f *Factory) Optional(elem Type) Type {
	key := elem.Name()
	return internType(&f.mu, f.optnls, key, func() Type { return &optionalType{elem: elem} })
}

// Struct returns the interned struct<fullName> type.
func (f *Factory) Struct(fullName string) Type {
	return internType(&f.mu, f.structs, fullName, func() Type { return &structType{fullName: fullName} })
}

// Enum returns the interned enum<fullName> type.
func (f *Factory) Enum(fullName string) Type {
	return internType(&f.mu, f.enums, fullName, func() Type { return &enumType{fullName: fullName} })
}

// internType implements the standard "check under read lock, construct and
// recheck under write lock" interning idiom (grounded on
// internal/registry.Registry's RWMutex-guarded provider/alias/extension
// maps, here keyed by type shape instead of language identifier).
func internType(mu *sync.RWMutex, cache map[string]Type, key string, construct func() Type) Type {
	mu.RLock()
	if t, ok := cache[key]; ok {
		mu.RUnlock()
		return t
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if t, ok := cache[key]; ok {
		return t
	}
	t := construct()
	cache[key] = t
	return t
}
