package cmd

import (
	"github.com/gridscope/gridscope/core"
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/spf13/cobra"
)

// anomaliesCmd flags anomalous readings.
var anomaliesCmd = &cobra.Command{
	Use:   "anomalies [data-file]",
	Short: "Flag anomalous readings in the load series.",
	Long: `Score every observation row with an isolation forest and flag outliers.

The expected anomalous fraction is set by --contamination; the scoring
threshold is derived from it. Flagged rows are reported with their
timestamp, load value and grouping key so they can be traced back to
the source data.

Typical finds: sensor glitches, outage windows, demand spikes and
meter rollovers.

Examples:
  # Default 5% contamination
  gridscope anomalies load.csv

  # More sensitive sweep
  gridscope anomalies load.csv --contamination 0.10

  # Flagged rows as CSV for triage
  gridscope anomalies load.csv --output csv --output-file flagged.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnomalies(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot detect anomalies", err)
		}
	},
}
