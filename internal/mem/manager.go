// Package mem implements the two allocation disciplines celval's value and
// type layers are built on (spec §4.1): reference counting and pooling
// (arena) allocation, behind one uniform Manager interface. A Manager
// reference travels explicitly alongside every factory and every
// evaluation; mixing handles from two managers within one evaluation is
// undefined (spec §4.1's contract), so nothing in this package reaches for
// a package-global default.
package mem

// Discipline identifies which allocation policy a Manager implements.
type Discipline uint8

const (
	DisciplineRefcounted Discipline = iota
	DisciplinePooling
)

func (d Discipline) String() string {
	switch d {
	case DisciplineRefcounted:
		return "refcounted"
	case DisciplinePooling:
		return "pooling"
	default:
		return "unknown"
	}
}

// Manager is the abstract allocation API both disciplines implement.
type Manager interface {
	Discipline() Discipline

	// AllocateRaw returns size zeroed bytes for a container that manages
	// its own construction (e.g. a builder's backing array). Under the
	// pooling discipline this bump-allocates from the active arena chunk;
	// under the reference-counted discipline it is a plain heap allocation.
	AllocateRaw(size int) []byte

	// RegisterDestructor arranges for fn to run when the object identified
	// by ptr reaches the end of its lifetime. Under the reference-counted
	// discipline this is a no-op (destructors run on strong-count-to-zero,
	// not on explicit registration); under pooling, fn is recorded and run
	// when Reset is called. ptr is only used as an opaque bookkeeping key —
	// it is never dereferenced by the manager.
	RegisterDestructor(ptr any, fn func())
}

// Handle is an owning reference to a T allocated through a Manager. Under
// the reference-counted discipline it participates in the allocation's
// strong count; under pooling it is a plain value whose backing
// allocation, if any, is reclaimed at the arena's next Reset.
type Handle[T any] struct {
	mgr   Manager
	value T
	cell  *rcCell // non-nil only when mgr is an *RCManager and needsDestructor was set
}

// Allocate constructs a Handle for value under m. needsDestructor marks
// whether destroy must run at end of life at all — trivially-destructible
// payloads (the common case: plain value types with no external resource)
// pass false and skip the destructor bookkeeping entirely, per spec §4.1's
// "destructors ... only for types that mark themselves destruction-required."
func Allocate[T any](m Manager, value T, needsDestructor bool, destroy func(T)) Handle[T] {
	h := Handle[T]{mgr: m, value: value}
	if !needsDestructor || destroy == nil {
		return h
	}
	switch mgr := m.(type) {
	case *RCManager:
		h.cell = mgr.newCell(func() { destroy(value) })
	default:
		// Pooling (or any future discipline): defer to the manager's own
		// destructor list; the handle's address is only an opaque key, since
		// Reset runs every registered destructor without looking any up.
		m.RegisterDestructor(&h.value, func() { destroy(value) })
	}
	return h
}

// Value returns the owned payload. Valid for the lifetime documented by the
// owning discipline: always for reference-counted handles still retained,
// until the next Reset for pooling-discipline handles.
func (h Handle[T]) Value() T { return h.value }

// Manager returns the Manager this handle was allocated under, so callers
// can guard against mixing handles across managers (spec §4.1).
func (h Handle[T]) Manager() Manager { return h.mgr }

// Retain increments the strong count for reference-counted handles. It is a
// no-op (and returns h unchanged) for pooling handles, since pooled
// allocations are owned by the arena as a whole, not individually counted.
func (h Handle[T]) Retain() Handle[T] {
	if h.cell != nil {
		h.cell.retain()
	}
	return h
}

// Release decrements the strong count for reference-counted handles,
// running the registered destructor synchronously if the count reaches
// zero. It is a no-op for pooling handles; those are destroyed in bulk by
// the arena's Reset.
func (h Handle[T]) Release() {
	if h.cell != nil {
		h.cell.release()
	}
}
