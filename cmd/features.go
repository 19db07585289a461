package cmd

import (
	"github.com/gridscope/gridscope/core"
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/spf13/cobra"
)

// featuresCmd engineers the feature matrix and prints its summary.
var featuresCmd = &cobra.Command{
	Use:   "features [data-file]",
	Short: "Engineer the feature matrix and show the derived columns.",
	Long: `Build the feature matrix from the raw load series and summarize it.

Derived columns include calendar encodings (hour-of-day and day-of-week
as sine/cosine pairs, weekend and peak-window indicators), lagged target
values, rolling means and standard deviations, exogenous attributes and
the encoded grouping key. Rows without enough history for the requested
lags are dropped.

Use this to inspect what the models will actually see before training.

Examples:
  # Summarize the engineered matrix
  gridscope features load.csv

  # Shorter lags for a sparse series
  gridscope features load.csv --lags 1,24

  # Feature list as CSV
  gridscope features load.csv --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFeatures(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot engineer features", err)
		}
	},
}
