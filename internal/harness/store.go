// Package harness implements the conformance harness's external plumbing:
// the stdin/stdout base64 line-pipe protocol (spec.md §6.2) and an optional
// SQLite run-log. Neither belongs to the value/type core (spec.md §6.4
// keeps that stateless); both live here, outside internal/mem,
// internal/types, internal/value, internal/factory, internal/reflect,
// internal/structbridge, and internal/activation entirely.
package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// RunRecord is one row of the harness's optional run-log: one row per
// invocation of a pipe command, recording what happened without recording
// the request/response payloads themselves.
type RunRecord struct {
	ID         string         `gorm:"primaryKey;type:varchar(36)"`
	Command    string         `gorm:"type:varchar(20);not null"`
	Outcome    string         `gorm:"type:varchar(20);not null"` // ok, error, unknown-command, missing-request-line
	DurationMs int64          `gorm:"not null"`
	StartedAt  time.Time      `gorm:"autoCreateTime"`
	Detail     datatypes.JSON `gorm:"type:jsonb"` // arbitrary per-command detail, e.g. {"error": "..."}
}

// TableName keeps the table name stable and explicit, the way the teacher's
// own models pin theirs rather than relying on gorm's pluralization.
func (RunRecord) TableName() string { return "runs" }

// Store records RunRecords to a local SQLite file. A nil *Store is valid
// and Record on it is a no-op — the zero-configuration default when
// CELVAL_RUN_LOG is unset, so "no filesystem state" holds without every
// caller having to check a flag first.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (creating if needed) a SQLite database at dsn and
// migrates the run-log table into it. An empty dsn returns (nil, nil): no
// store, no error, no file touched.
func OpenStore(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, nil
	}
	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("harness: create run-log directory: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("harness: open run-log: %w", err)
	}
	if err := db.AutoMigrate(&RunRecord{}); err != nil {
		return nil, fmt.Errorf("harness: migrate run-log: %w", err)
	}
	return &Store{db: db}, nil
}

// Record appends one row describing a finished command invocation. detail
// is arbitrary per-command context (e.g. {"error": "..."}); a nil detail
// stores SQL NULL rather than an empty JSON object. Errors writing the log
// are swallowed (logged to stderr) rather than propagated, since a broken
// telemetry sink must never fail the command it's observing.
func (s *Store) Record(command, outcome string, duration time.Duration, detail map[string]any) {
	if s == nil {
		return
	}
	row := RunRecord{
		ID:         uuid.NewString(),
		Command:    command,
		Outcome:    outcome,
		DurationMs: duration.Milliseconds(),
	}
	if detail != nil {
		data, err := json.Marshal(detail)
		if err != nil {
			fmt.Fprintf(os.Stderr, "harness: run-log detail marshal failed: %v\n", err)
		} else {
			row.Detail = datatypes.JSON(data)
		}
	}
	if err := s.db.Create(&row).Error; err != nil {
		fmt.Fprintf(os.Stderr, "harness: run-log write failed: %v\n", err)
	}
}

// Close releases the underlying database connection. Safe to call on a
// nil *Store.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
