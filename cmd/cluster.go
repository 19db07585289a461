package cmd

import (
	"github.com/gridscope/gridscope/core"
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/spf13/cobra"
)

// clusterCmd segments consumption patterns.
var clusterCmd = &cobra.Command{
	Use:   "cluster [data-file]",
	Short: "Segment the load observations into consumption patterns.",
	Long: `Cluster the engineered observation rows into consumption patterns.

Rows are standardized and partitioned with seeded k-means. Each cluster
is profiled with its size, average load and typical hour, and the
separation quality is reported as a silhouette score in [-1, 1].

Use this to discover recurring regimes: overnight valleys, workday
ramps, evening peaks or seasonal extremes.

Examples:
  # Default four-way segmentation
  gridscope cluster load.csv

  # Coarser split
  gridscope cluster load.csv --clusters 2

  # Cluster profiles as JSON
  gridscope cluster load.csv --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCluster(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot cluster observations", err)
		}
	},
}
