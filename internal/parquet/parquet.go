// Package parquet provides data structures and functions for exporting
// gridscope run tracking data to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/gridscope/gridscope/schema"
	"github.com/parquet-go/parquet-go"
)

// PipelineRun represents a single pipeline run with metadata.
// This struct maps to the gridscope_pipeline_runs database table.
type PipelineRun struct {
	// RunID is the unique identifier for this pipeline run
	RunID int64 `parquet:"run_id,snappy"`

	// StartedAt is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartedAt time.Time `parquet:"started_at,snappy"`

	// EndedAt is when the run completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndedAt *time.Time `parquet:"ended_at,optional,snappy"`

	// DurationMs is the duration of the run in milliseconds (nullable)
	DurationMs *int32 `parquet:"duration_ms,optional,snappy"`

	// Status is the terminal state of the run (running, completed, error)
	Status string `parquet:"status,snappy"`

	// NumModels is the number of models trained in this run (nullable)
	NumModels *int32 `parquet:"num_models,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ModelMetrics represents the evaluation metrics for a single model in a run.
// This struct maps to the gridscope_model_metrics database table.
type ModelMetrics struct {
	// RunID references the parent pipeline run
	RunID int64 `parquet:"run_id,snappy"`

	// ModelName identifies the trained algorithm
	ModelName string `parquet:"model_name,snappy"`

	// TrainedAt is when this model finished training (stored as TIMESTAMP with nanosecond precision)
	TrainedAt time.Time `parquet:"trained_at,snappy"`

	// TrainMAE is the mean absolute error on the training window
	TrainMAE float64 `parquet:"train_mae,snappy"`

	// TestMAE is the mean absolute error on the held-out window
	TestMAE float64 `parquet:"test_mae,snappy"`

	// TrainR2 is the coefficient of determination on the training window
	TrainR2 float64 `parquet:"train_r2,snappy"`

	// TestR2 is the coefficient of determination on the held-out window
	TestR2 float64 `parquet:"test_r2,snappy"`

	// CVScore is the mean MAE across time-series cross-validation folds
	CVScore float64 `parquet:"cv_score,snappy"`

	// FitStatus indicates the diagnosis (Overfit, Underfit, Well fit)
	FitStatus string `parquet:"fit_status,snappy"`

	// BestModel marks whether this model won the run
	BestModel bool `parquet:"best_model,snappy"`
}

// WritePipelineRunsParquet writes a slice of PipelineRun structs to a Parquet file.
func WritePipelineRunsParquet(data []PipelineRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the PipelineRun struct tags
	writer := parquet.NewGenericWriter[PipelineRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteModelMetricsParquet writes a slice of ModelMetrics structs to a Parquet file.
func WriteModelMetricsParquet(data []ModelMetrics, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the ModelMetrics struct tags
	writer := parquet.NewGenericWriter[ModelMetrics](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertPipelineRunRecords converts schema.PipelineRunRecord to PipelineRun for Parquet export.
func ConvertPipelineRunRecords(records []schema.PipelineRunRecord) []PipelineRun {
	result := make([]PipelineRun, len(records))
	for i, record := range records {
		result[i] = PipelineRun{
			RunID:        record.RunID,
			StartedAt:    record.StartedAt,
			EndedAt:      record.EndedAt,
			DurationMs:   record.DurationMs,
			Status:       record.Status,
			NumModels:    record.NumModels,
			ConfigParams: record.ConfigParams,
		}
	}
	return result
}

// ConvertModelMetricsRecords converts schema.ModelMetricsRecord to ModelMetrics for Parquet export.
func ConvertModelMetricsRecords(records []schema.ModelMetricsRecord) []ModelMetrics {
	result := make([]ModelMetrics, len(records))
	for i, record := range records {
		result[i] = ModelMetrics{
			RunID:     record.RunID,
			ModelName: record.ModelName,
			TrainedAt: record.TrainedAt,
			TrainMAE:  record.TrainMAE,
			TestMAE:   record.TestMAE,
			TrainR2:   record.TrainR2,
			TestR2:    record.TestR2,
			CVScore:   record.CVScore,
			FitStatus: record.FitStatus,
			BestModel: record.BestModel,
		}
	}
	return result
}
