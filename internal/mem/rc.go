package mem

import "sync/atomic"

// rcCell holds the strong count and destructor for one reference-counted
// allocation. Retain/release are safe to call concurrently; the payload
// itself is not made concurrency-safe by this type (spec §5).
type rcCell struct {
	strong  atomic.Int64
	destroy func()
}

func (c *rcCell) retain() { c.strong.Add(1) }

func (c *rcCell) release() {
	if c.strong.Add(-1) == 0 && c.destroy != nil {
		c.destroy()
	}
}

// RCManager implements the reference-counted discipline: each allocation
// carries a strong count starting at one; dropping the last handle
// destroys the object eagerly. Allocation is thread-safe; the core creates
// no cycles (all inter-value references are downward, spec §9), so plain
// counting, with no cycle collector, is sufficient.
type RCManager struct{}

// NewRCManager constructs a reference-counted Manager.
func NewRCManager() *RCManager { return &RCManager{} }

func (m *RCManager) Discipline() Discipline { return DisciplineRefcounted }

func (m *RCManager) AllocateRaw(size int) []byte {
	if size <= 0 {
		return nil
	}
	return make([]byte, size)
}

// RegisterDestructor is a no-op under the reference-counted discipline:
// destructors run when a handle's strong count reaches zero (see Allocate),
// not via a separate registration call — spec §4.1.
func (m *RCManager) RegisterDestructor(ptr any, fn func()) {}

func (m *RCManager) newCell(destroy func()) *rcCell {
	c := &rcCell{destroy: destroy}
	c.strong.Store(1)
	return c
}
