package runstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gridscope/gridscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateTracking_NoneBackend(t *testing.T) {
	err := MigrateTracking(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateTracking_UnsupportedBackend(t *testing.T) {
	err := MigrateTracking(schema.DatabaseBackend("oracle"), "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestMigrateTracking_SQLite(t *testing.T) {
	// Create a temporary database file for testing
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test_migration.db")

	// Run migration to latest version (should go to version 1)
	err := MigrateTracking(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)

	// Verify migration was successful by checking the database file exists
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	// Run migration again (should be a no-op)
	err = MigrateTracking(schema.SQLiteBackend, dbPath, -1)
	assert.NoError(t, err)

	// Run migration to a specific version (version 1)
	err = MigrateTracking(schema.SQLiteBackend, dbPath, 1)
	assert.NoError(t, err)

	// Rollback all migrations
	err = MigrateTracking(schema.SQLiteBackend, dbPath, 0)
	assert.NoError(t, err)

	// Migrate back up after a full rollback
	err = MigrateTracking(schema.SQLiteBackend, dbPath, -1)
	assert.NoError(t, err)
}

func TestMigrateTracking_MigratedSchemaIsUsable(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test_usable.db")

	err := MigrateTracking(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)

	// The store should work against the migrated schema
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(map[string]any{"migrated": true})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	err = store.EndRun(runID, schema.StatusCompleted, 0)
	assert.NoError(t, err)
}
