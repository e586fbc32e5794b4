package config

import (
	"os"
	"testing"
)

func TestLoadDefaultValues(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	cfg := Load()

	if cfg.MemDiscipline != MemDisciplineRefcount {
		t.Errorf("Expected MemDiscipline 'refcount', got '%s'", cfg.MemDiscipline)
	}
	if cfg.ArenaChunkBytes != 64*1024 {
		t.Errorf("Expected ArenaChunkBytes 65536, got %d", cfg.ArenaChunkBytes)
	}
	if cfg.RunLogPath != "" {
		t.Errorf("Expected empty RunLogPath, got '%s'", cfg.RunLogPath)
	}
	if cfg.TypeURLPrefix != "type.googleapis.com/" {
		t.Errorf("Expected default TypeURLPrefix, got '%s'", cfg.TypeURLPrefix)
	}
}

func TestLoadEnvironmentVariables(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("CELVAL_MEM_DISCIPLINE", "pool")
	os.Setenv("CELVAL_ARENA_CHUNK_BYTES", "4096")
	os.Setenv("CELVAL_RUN_LOG", "/tmp/celval-runs.db")
	os.Setenv("CELVAL_TYPE_URL_PREFIX", "type.example.com/")

	cfg := Load()

	if cfg.MemDiscipline != MemDisciplinePool {
		t.Errorf("Expected MemDiscipline 'pool', got '%s'", cfg.MemDiscipline)
	}
	if cfg.ArenaChunkBytes != 4096 {
		t.Errorf("Expected ArenaChunkBytes 4096, got %d", cfg.ArenaChunkBytes)
	}
	if cfg.RunLogPath != "/tmp/celval-runs.db" {
		t.Errorf("Expected RunLogPath set, got '%s'", cfg.RunLogPath)
	}
	if cfg.TypeURLPrefix != "type.example.com/" {
		t.Errorf("Expected overridden TypeURLPrefix, got '%s'", cfg.TypeURLPrefix)
	}
}

func TestLoadInvalidMemDisciplineFallsBackToDefault(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("CELVAL_MEM_DISCIPLINE", "bogus")
	os.Setenv("CELVAL_ARENA_CHUNK_BYTES", "not-a-number")

	cfg := Load()

	if cfg.MemDiscipline != MemDisciplineRefcount {
		t.Errorf("Expected fallback to 'refcount', got '%s'", cfg.MemDiscipline)
	}
	if cfg.ArenaChunkBytes != 64*1024 {
		t.Errorf("Expected fallback ArenaChunkBytes 65536, got %d", cfg.ArenaChunkBytes)
	}
}

func clearConfigEnvVars() {
	envVars := []string{
		"CELVAL_MEM_DISCIPLINE",
		"CELVAL_ARENA_CHUNK_BYTES",
		"CELVAL_RUN_LOG",
		"CELVAL_TYPE_URL_PREFIX",
	}
	for _, envVar := range envVars {
		os.Unsetenv(envVar)
	}
}
