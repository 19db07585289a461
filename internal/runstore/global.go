package runstore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/gridscope/gridscope/internal/artifact"
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
)

// StoreManager bundles the run store and artifact store behind one handle.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	runs         contract.RunStore
	artifacts    contract.ArtifactStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetRunStore returns the run-tracking RunStore.
func (mgr *StoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}

// GetArtifactStore returns the model ArtifactStore.
func (mgr *StoreManager) GetArtifactStore() contract.ArtifactStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.artifacts
}

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetRunDBFilePath returns the path to the SQLite DB file for run tracking.
func GetRunDBFilePath() string {
	return contract.GetRunDBFilePath()
}

// InitStores initializes the global store manager with a run store and an
// artifact store. backend can be NoneBackend to disable run tracking;
// artifactDir can be empty to disable artifact persistence.
func InitStores(backend schema.DatabaseBackend, connStr, artifactDir string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		runs, err := NewRunStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize run tracking: %w", err)
			return
		}

		var artifacts contract.ArtifactStore
		if artifactDir != "" {
			artifacts, err = artifact.NewFileStore(artifactDir)
			if err != nil {
				_ = runs.Close()
				initErr = fmt.Errorf("failed to initialize artifact store: %w", err)
				return
			}
		}

		// Assign to global manager
		Manager.Lock()
		Manager.runs = runs
		Manager.artifacts = artifacts
		Manager.Unlock()
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

// ClearTracking clears the run tracking data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tracking tables.
// For NoneBackend, it does nothing.
func ClearTracking(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return dropTrackingTables("mysql", connStr)

	case schema.PostgreSQLBackend:
		return dropTrackingTables("pgx", connStr)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// dropTrackingTables connects to the SQL database and drops the tracking tables.
func dropTrackingTables(driverName, connStr string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	tables := []string{modelMetricsTable, pipelineRunsTable}
	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}
