// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/gridscope/gridscope/schema"
)

// DataSource defines the boundary to the upstream acquisition layer.
// This allows the pipeline to be tested without real connectors.
type DataSource interface {
	// GetTrainingData returns the raw observation series, ordered by timestamp
	// within each group. Implementations may read files, databases or caches.
	GetTrainingData(ctx context.Context) ([]schema.Observation, error)
}

// ArtifactStore persists the fitted parameters of the winning model.
// Implementations must serialize concurrent writes per model key and must
// never leave partially-written artifacts behind (write-then-atomic-rename).
type ArtifactStore interface {
	// Save writes the artifact and returns the durable location it was written to.
	Save(artifact *schema.ModelArtifact) (string, error)

	// Load reads a previously saved artifact by model name.
	Load(modelName string) (*schema.ModelArtifact, error)
}

// RunStore tracks pipeline runs and their per-model metrics in a database.
// A nil or disabled store is valid; tracking is best-effort and never blocks
// the pipeline.
type RunStore interface {
	// BeginRun records the start of a pipeline run and returns its ID.
	BeginRun(configParams map[string]any) (int64, error)

	// EndRun finalizes a run with its terminal status and model count.
	EndRun(runID int64, status schema.PipelineStatus, numModels int) error

	// RecordModel stores one trained model's metrics for a run.
	RecordModel(runID int64, rec *schema.ModelMetricsRecord) error

	// GetStatus reports store health and aggregate counters.
	GetStatus() (*schema.RunStatus, error)

	// GetRuns returns all tracked pipeline runs, oldest first.
	GetRuns() ([]schema.PipelineRunRecord, error)

	// GetModelMetrics returns all recorded model metrics, newest first.
	GetModelMetrics() ([]schema.ModelMetricsRecord, error)

	// Clear removes all tracked runs and metrics.
	Clear() error

	// Close releases the underlying database handle.
	Close() error
}

// StoreManager bundles the persistence surfaces handed to the orchestrator.
// This allows both stores to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
	GetArtifactStore() ArtifactStore
}
