package harness

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStoreEmptyDSNIsNoop(t *testing.T) {
	s, err := OpenStore("")
	require.NoError(t, err)
	assert.Nil(t, s)
	// Record and Close on a nil *Store must not panic.
	s.Record("ping", "ok", time.Millisecond, nil)
	assert.NoError(t, s.Close())
}

func TestOpenStoreRecordsRuns(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "runs.db")
	s, err := OpenStore(dsn)
	require.NoError(t, err)
	require.NotNil(t, s)
	defer s.Close()

	s.Record("ping", "ok", 5*time.Millisecond, nil)
	s.Record("parse", "error", 1*time.Millisecond, map[string]any{"error": "unimplemented"})

	var rows []RunRecord
	require.NoError(t, s.db.Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "ping", rows[0].Command)
	assert.Equal(t, "ok", rows[0].Outcome)
	assert.Equal(t, int64(5), rows[0].DurationMs)
	assert.Empty(t, rows[0].Detail)
	assert.Contains(t, string(rows[1].Detail), "unimplemented")
}

func TestRunRecordTableName(t *testing.T) {
	assert.Equal(t, "runs", RunRecord{}.TableName())
}
