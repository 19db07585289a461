package cmd

import (
	"github.com/gridscope/gridscope/core"
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/spf13/cobra"
)

// runCmd performs the full analysis pipeline.
var runCmd = &cobra.Command{
	Use:   "run [data-file]",
	Short: "Run the full pipeline and print a structured report.",
	Long: `Run every analysis stage over the load series and print one report.

The pipeline acquires the observations, engineers the feature matrix,
trains the full model registry, diagnoses each fit, segments the
consumption patterns, flags anomalous readings and attributes the
winning model to its features. Clustering, anomaly detection and
attribution degrade gracefully: their failure lands in the report
instead of aborting the run.

When run tracking is enabled, every execution is recorded with its
configuration, duration and per-model metrics, and the winning model's
parameters are persisted as a JSON artifact.

Examples:
  # Full pipeline on an hourly load CSV
  gridscope run load.csv

  # Full pipeline on a seeded synthetic series
  gridscope run --synthetic

  # Machine-readable report for downstream tooling
  gridscope run load.csv --output json --output-file report.json

  # Faster iteration with fewer CV folds and more workers
  gridscope run load.csv --cv-folds 2 --workers 8`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRun(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run pipeline", err)
		}
	},
}
