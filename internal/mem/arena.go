package mem

// destructorEntry pairs a bookkeeping key with the function to run at
// Reset. ptr is never dereferenced; it exists only so callers could, in
// principle, look up whether a given allocation already registered one
// (not currently needed, but keeps the entry self-describing).
type destructorEntry struct {
	ptr any
	fn  func()
}

// ArenaManager implements the pooling discipline: allocations bump-allocate
// into a growable byte chunk; Reset runs every registered destructor and
// then frees the chunk's contents as a whole by zeroing the used part and
// rewinding the offset, keeping the chunk for reuse (a chunk replaced by
// growFor is reclaimed by Go's GC). ArenaManager is single-threaded per arena
// (spec §5): one arena belongs to one evaluation running on one goroutine.
type ArenaManager struct {
	chunkSize   int
	chunk       []byte
	offset      int
	destructors []destructorEntry
}

// NewArenaManager constructs a pooling Manager with the given initial chunk
// size in bytes. A non-positive size falls back to 64KiB.
func NewArenaManager(chunkSize int) *ArenaManager {
	if chunkSize <= 0 {
		chunkSize = 64 * 1024
	}
	return &ArenaManager{chunkSize: chunkSize, chunk: make([]byte, chunkSize)}
}

func (m *ArenaManager) Discipline() Discipline { return DisciplinePooling }

// AllocateRaw bump-allocates size bytes from the active chunk, growing (and
// losing no previously-handed-out slice, since those reference the old
// backing array, which Go's GC keeps alive as long as a caller holds it) if
// the current chunk has no room left.
func (m *ArenaManager) AllocateRaw(size int) []byte {
	if size <= 0 {
		return nil
	}
	if m.offset+size > len(m.chunk) {
		m.growFor(size)
	}
	b := m.chunk[m.offset : m.offset+size : m.offset+size]
	m.offset += size
	return b
}

func (m *ArenaManager) growFor(size int) {
	next := m.chunkSize
	for next < size {
		next *= 2
	}
	m.chunk = make([]byte, next)
	m.offset = 0
	m.chunkSize = next
}

// RegisterDestructor records fn to run at the next Reset. Trivially
// destructible types never call this (spec §4.1), so the list only grows
// for payloads that actually need cleanup.
func (m *ArenaManager) RegisterDestructor(ptr any, fn func()) {
	if fn == nil {
		return
	}
	m.destructors = append(m.destructors, destructorEntry{ptr: ptr, fn: fn})
}

// Reset runs every registered destructor in reverse registration order
// (last allocated, first destroyed — consistent with the core's
// downward-only reference invariant, spec §9), then reclaims the arena for
// reuse by subsequent allocations.
func (m *ArenaManager) Reset() {
	for i := len(m.destructors) - 1; i >= 0; i-- {
		m.destructors[i].fn()
	}
	m.destructors = m.destructors[:0]
	clear(m.chunk[:m.offset])
	m.offset = 0
}

// PendingDestructors reports how many destructors are currently pending, for tests.
func (m *ArenaManager) PendingDestructors() int { return len(m.destructors) }
