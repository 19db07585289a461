package runstore

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gridscope/gridscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitStores(t *testing.T) {
	t.Run("single setup", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "runs.db")
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		err := InitStores(schema.SQLiteBackend, dbPath, filepath.Join(tmpDir, "models"))
		require.NoError(t, err)

		// Both stores are accessible through the manager
		require.NotNil(t, Manager.GetRunStore())
		require.NotNil(t, Manager.GetArtifactStore())

		CloseStores()

		// Verify database file was created
		_, err = os.Stat(dbPath)
		assert.NoError(t, err)
	})

	t.Run("idempotent setup", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "runs.db")
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		// Multiple initializations should be safe (sync.Once)
		err1 := InitStores(schema.SQLiteBackend, dbPath, "")
		err2 := InitStores(schema.SQLiteBackend, dbPath, "")

		require.NoError(t, err1)
		require.NoError(t, err2)
		CloseStores()
	})

	t.Run("disabled tracking", func(t *testing.T) {
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		err := InitStores(schema.NoneBackend, "", "")
		require.NoError(t, err)

		// The no-op run store still satisfies the interface
		store := Manager.GetRunStore()
		require.NotNil(t, store)

		runID, err := store.BeginRun(nil)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), runID)

		// Artifact persistence is off without a directory
		assert.Nil(t, Manager.GetArtifactStore())
		CloseStores()
	})
}

func TestClearTracking(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "runs.db")

		store, err := NewRunStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		err = ClearTracking(schema.SQLiteBackend, dbPath, "")
		require.NoError(t, err)

		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite requires path", func(t *testing.T) {
		err := ClearTracking(schema.SQLiteBackend, "", "")
		assert.Error(t, err)
	})

	t.Run("sqlite missing file is not an error", func(t *testing.T) {
		err := ClearTracking(schema.SQLiteBackend, filepath.Join(t.TempDir(), "absent.db"), "")
		assert.NoError(t, err)
	})

	t.Run("none backend is a no-op", func(t *testing.T) {
		err := ClearTracking(schema.NoneBackend, "", "")
		assert.NoError(t, err)
	})

	t.Run("unsupported backend", func(t *testing.T) {
		err := ClearTracking(schema.DatabaseBackend("oracle"), "", "")
		assert.Error(t, err)
	})
}
