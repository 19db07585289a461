package cmd

import (
	"github.com/gridscope/gridscope/core"
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/spf13/cobra"
)

// modelsCmd trains the registry and prints the ranked results.
var modelsCmd = &cobra.Command{
	Use:   "models [data-file]",
	Short: "Train the model registry and rank the results.",
	Long: `Train every registered regression algorithm and compare the fits.

Each algorithm is fitted on the chronological head of the series and
evaluated on the held-out tail, then cross-validated over expanding
time-series folds. The diagnostics classify every fit as well fitted,
overfitting or underfitting, and the model with the lowest test MAE
wins.

Algorithms: linear regression, decision tree, random forest and two
gradient boosting variants. Fits run concurrently up to --workers.

Examples:
  # Train and rank all models
  gridscope models load.csv

  # Stricter holdout and more folds
  gridscope models load.csv --test-fraction 0.3 --cv-folds 5

  # Export metrics for tracking
  gridscope models load.csv --output csv --output-file metrics.csv

  # Columnar export for notebooks
  gridscope models load.csv --output parquet --output-file metrics`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteModels(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot train models", err)
		}
	},
}
