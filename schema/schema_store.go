package schema

import "time"

// RunStatus represents the status of the run-tracking store.
type RunStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalModels   int              `json:"total_models"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// PipelineRunRecord represents a row from the gridscope_pipeline_runs table.
// Nullable columns are pointers so an unfinished run round-trips cleanly.
type PipelineRunRecord struct {
	RunID        int64
	StartedAt    time.Time
	EndedAt      *time.Time
	DurationMs   *int32
	Status       string
	NumModels    *int32
	ConfigParams *string
}

// ModelMetricsRecord represents a row from the gridscope_model_metrics table.
type ModelMetricsRecord struct {
	RunID     int64
	ModelName string
	TrainedAt time.Time
	TrainMAE  float64
	TestMAE   float64
	TrainR2   float64
	TestR2    float64
	CVScore   float64
	FitStatus string
	BestModel bool
}
