package cmd

import (
	"github.com/gridscope/gridscope/core"
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/spf13/cobra"
)

// explainCmd attributes the winning model to its features.
var explainCmd = &cobra.Command{
	Use:   "explain [data-file]",
	Short: "Rank the features driving the winning model.",
	Long: `Train the registry, pick the winning model and attribute its behavior.

Attribution prefers the model's intrinsic gain importances (tree
ensembles), falls back to permutation importance over a row sample
when those are missing, and degrades to a uniform attribution when no
model survived training.

The ranking answers "what drives the prediction": lagged load, hour of
day, temperature or the grouping key.

Examples:
  # Rank feature importances
  gridscope explain load.csv

  # Larger permutation sample for stabler estimates
  gridscope explain load.csv --sample-size 500

  # Ranked attribution as JSON
  gridscope explain load.csv --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteExplain(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot explain model", err)
		}
	},
}
