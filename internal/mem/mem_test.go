package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRCManagerDestroysOnLastRelease(t *testing.T) {
	m := NewRCManager()
	assert.Equal(t, DisciplineRefcounted, m.Discipline())

	destroyed := 0
	h := Allocate(m, "payload", true, func(string) { destroyed++ })

	h2 := h.Retain()
	h.Release()
	assert.Equal(t, 0, destroyed, "strong count still 1 after one retain + one release")

	h2.Release()
	assert.Equal(t, 1, destroyed, "destructor must fire exactly once when count hits zero")
}

func TestRCManagerCopyAndDropManyTimesLeaksNothing(t *testing.T) {
	// Invariant 8 (spec §8): arbitrary interleavings of copy/retain and
	// drop/release leave exactly one destruction and a stable final value.
	m := NewRCManager()
	destroyed := 0
	h := Allocate(m, 42, true, func(int) { destroyed++ })

	handles := []Handle[int]{h}
	for i := 0; i < 10; i++ {
		handles = append(handles, handles[len(handles)-1].Retain())
	}
	require.Len(t, handles, 11)

	for _, hh := range handles {
		assert.Equal(t, 42, hh.Value())
	}

	for _, hh := range handles {
		hh.Release()
	}
	assert.Equal(t, 1, destroyed)
}

func TestRCManagerSkipsDestructorBookkeepingWhenNotNeeded(t *testing.T) {
	m := NewRCManager()
	h := Allocate(m, "trivial", false, nil)
	// No destructor registered; Release must not panic even though no cell exists.
	h.Release()
	assert.Equal(t, "trivial", h.Value())
}

func TestArenaManagerBumpAllocatesAndGrows(t *testing.T) {
	m := NewArenaManager(8)
	a := m.AllocateRaw(4)
	b := m.AllocateRaw(4)
	assert.Len(t, a, 4)
	assert.Len(t, b, 4)

	// Next allocation forces a grow since the 8-byte chunk is exhausted.
	c := m.AllocateRaw(16)
	assert.Len(t, c, 16)

	// Previously handed out slices remain valid (distinct backing arrays).
	copy(a, []byte{1, 2, 3, 4})
	assert.Equal(t, []byte{1, 2, 3, 4}, a)
}

func TestArenaManagerResetRunsDestructorsInReverseOrder(t *testing.T) {
	m := NewArenaManager(64)
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		m.RegisterDestructor(i, func() { order = append(order, i) })
	}
	assert.Equal(t, 3, m.PendingDestructors())

	m.Reset()
	assert.Equal(t, []int{2, 1, 0}, order)
	assert.Equal(t, 0, m.PendingDestructors())
}

func TestArenaManagerSkipsDestructorListForTrivialTypes(t *testing.T) {
	m := NewArenaManager(64)
	_ = m.AllocateRaw(8)
	assert.Equal(t, 0, m.PendingDestructors())
}

func TestDisciplineString(t *testing.T) {
	assert.Equal(t, "refcounted", DisciplineRefcounted.String())
	assert.Equal(t, "pooling", DisciplinePooling.String())
	assert.Equal(t, "unknown", Discipline(99).String())
}
