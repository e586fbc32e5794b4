package activation

import (
	"sync"

	"github.com/oxhq/celval/internal/value"
)

// lazyBinding resolves its value at most once per evaluation — the same
// "read once, cache the resolved result" shape config.Load applies to
// process-env reads, generalized here to an arbitrary thunk.
type lazyBinding struct {
	once  sync.Once
	thunk func() (value.Value, bool)
	v     value.Value
	ok    bool
}

func (l *lazyBinding) resolve() (value.Value, bool) {
	l.once.Do(func() {
		l.v, l.ok = l.thunk()
	})
	return l.v, l.ok
}

// Map is the mutable reference Activation: eager bindings are stored
// directly, lazy bindings are stored as sync.Once-guarded thunks.
type Map struct {
	mu        sync.RWMutex
	eager     map[string]value.Value
	lazy      map[string]*lazyBinding
	overloads map[string][]Overload
}

// NewMap constructs an empty, ready-to-use Map.
func NewMap() *Map {
	return &Map{
		eager:     make(map[string]value.Value),
		lazy:      make(map[string]*lazyBinding),
		overloads: make(map[string][]Overload),
	}
}

// BindVariable binds name to an already-known value, overwriting any prior
// binding (eager or lazy) for the same name.
func (m *Map) BindVariable(name string, v value.Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lazy, name)
	m.eager[name] = v
}

// BindLazyVariable binds name to a thunk that runs at most once, the first
// time the binding is looked up, regardless of how many times FindVariable
// is called afterward for the same name.
func (m *Map) BindLazyVariable(name string, thunk func() (value.Value, bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.eager, name)
	m.lazy[name] = &lazyBinding{thunk: thunk}
}

// BindFunction registers one or more overloads under name, appending to any
// already registered under the same name.
func (m *Map) BindFunction(name string, overloads ...Overload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overloads[name] = append(m.overloads[name], overloads...)
}

func (m *Map) FindVariable(name string) (value.Value, bool) {
	m.mu.RLock()
	if v, ok := m.eager[name]; ok {
		m.mu.RUnlock()
		return v, true
	}
	lb, ok := m.lazy[name]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return lb.resolve()
}

func (m *Map) FindFunctionOverloads(name string) []Overload {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.overloads[name]
}
