package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/celval/internal/config"
	"github.com/oxhq/celval/internal/factory"
	"github.com/oxhq/celval/internal/mem"
)

func TestRunBenchDoesNotPanic(t *testing.T) {
	cfg := &config.Config{
		MemDiscipline:   config.MemDisciplineRefcount,
		ArenaChunkBytes: 4096,
		TypeURLPrefix:   "type.googleapis.com/",
	}
	runBench(cfg)
}

func TestDebugStringDiffShowsChange(t *testing.T) {
	vf := factory.NewValueFactory(mem.NewRCManager())
	before, err := vf.NewDuration(90, 0)
	require.NoError(t, err)
	after, err := vf.NewDuration(120, 0)
	require.NoError(t, err)

	diff := debugStringDiff(before, after)
	assert.Contains(t, diff, "-")
	assert.Contains(t, diff, "+")
}

func TestDebugStringDiffEmptyForIdenticalValues(t *testing.T) {
	vf := factory.NewValueFactory(mem.NewRCManager())
	v, err := vf.NewDuration(90, 0)
	require.NoError(t, err)

	assert.Empty(t, debugStringDiff(v, v))
}

func TestRunBenchWithPoolDiscipline(t *testing.T) {
	cfg := &config.Config{
		MemDiscipline:   config.MemDisciplinePool,
		ArenaChunkBytes: 4096,
		TypeURLPrefix:   "type.googleapis.com/",
	}
	runBench(cfg)
}
