package runstore

import (
	"errors"
	"fmt"

	"github.com/gridscope/gridscope/internal/parquet"
)

// ExecuteRunExport performs the actual export of run tracking data to Parquet files.
func ExecuteRunExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the run store
	store := Manager.GetRunStore()
	if store == nil {
		return errors.New("run tracking is not initialized")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run store status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total pipeline runs: %d\n", status.TotalRuns)
	fmt.Printf("Total model records: %d\n", status.TableSizes[modelMetricsTable])

	// Retrieve all pipeline runs
	runs, err := store.GetRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve pipeline runs: %w", err)
	}

	// Retrieve all model metrics
	metrics, err := store.GetModelMetrics()
	if err != nil {
		return fmt.Errorf("failed to retrieve model metrics: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertPipelineRunRecords(runs)
	parquetMetrics := parquet.ConvertModelMetricsRecords(metrics)

	// Write pipeline runs to Parquet
	runsFile := outputFile + ".pipeline_runs.parquet"
	if err := parquet.WritePipelineRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write pipeline runs: %w", err)
	}
	fmt.Printf("Exported %d pipeline runs to: %s\n", len(parquetRuns), runsFile)

	// Write model metrics to Parquet
	metricsFile := outputFile + ".model_metrics.parquet"
	if err := parquet.WriteModelMetricsParquet(parquetMetrics, metricsFile); err != nil {
		return fmt.Errorf("failed to write model metrics: %w", err)
	}
	fmt.Printf("Exported %d model metric records to: %s\n", len(parquetMetrics), metricsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
