// Package config loads the celval harness's environment-driven
// configuration: which memory discipline new factories use by default and
// whether harness runs are logged to a local SQLite store.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// MemDiscipline selects which mem.Manager constructor the harness uses.
type MemDiscipline string

const (
	MemDisciplineRefcount MemDiscipline = "refcount"
	MemDisciplinePool     MemDiscipline = "pool"
)

// Config holds the harness's configuration, loaded once at startup.
type Config struct {
	// MemDiscipline selects reference-counted or pooling allocation for
	// values and types constructed by the harness.
	MemDiscipline MemDiscipline

	// ArenaChunkBytes is the initial chunk size for pooling-discipline
	// arenas, when MemDiscipline is "pool".
	ArenaChunkBytes int

	// RunLogPath, when non-empty, is a SQLite DSN the harness appends one
	// row to per invocation. Empty means no persistence occurs at all.
	RunLogPath string

	// TypeURLPrefix is prefixed onto type names when constructing `any`
	// values (spec §4.4.1 convert_to_any).
	TypeURLPrefix string
}

// Load reads configuration from the environment, first loading a .env file
// from the current directory if one exists (missing .env is not an error).
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		MemDiscipline:   MemDisciplineRefcount,
		ArenaChunkBytes: 64 * 1024,
		RunLogPath:      os.Getenv("CELVAL_RUN_LOG"),
		TypeURLPrefix:   "type.googleapis.com/",
	}

	if mode := os.Getenv("CELVAL_MEM_DISCIPLINE"); mode != "" {
		switch MemDiscipline(mode) {
		case MemDisciplineRefcount, MemDisciplinePool:
			cfg.MemDiscipline = MemDiscipline(mode)
		}
	}

	if chunkStr := os.Getenv("CELVAL_ARENA_CHUNK_BYTES"); chunkStr != "" {
		if chunk, err := strconv.Atoi(chunkStr); err == nil && chunk > 0 {
			cfg.ArenaChunkBytes = chunk
		}
	}

	if prefix := os.Getenv("CELVAL_TYPE_URL_PREFIX"); prefix != "" {
		cfg.TypeURLPrefix = prefix
	}

	return cfg
}
