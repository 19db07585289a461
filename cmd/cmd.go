// Package cmd defines the command-line interface for gridscope.
package cmd

import (
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(clusterCmd)
	rootCmd.AddCommand(anomaliesCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Bool("synthetic", false, "Generate a seeded synthetic load series instead of reading a file")
	rootCmd.PersistentFlags().Int("rows", contract.DefaultSyntheticRows, "Number of synthetic observations to generate")
	rootCmd.PersistentFlags().String("target", contract.DefaultTargetColumn, "Column holding the target value")
	rootCmd.PersistentFlags().String("timestamp-column", contract.DefaultTimestampColumn, "Column holding the observation timestamp")
	rootCmd.PersistentFlags().String("group-column", contract.DefaultGroupColumn, "Optional column holding the grouping key")
	rootCmd.PersistentFlags().String("lags", "", "Comma-separated lag offsets for target-derived features (default 1,24,168)")
	rootCmd.PersistentFlags().String("windows", "", "Comma-separated trailing window sizes for rolling statistics (default 24,168)")
	rootCmd.PersistentFlags().String("peak-window", "", "Peak demand hours as start-end (default 18-21)")
	rootCmd.PersistentFlags().Float64("test-fraction", contract.DefaultTestFraction, "Chronological tail fraction held out for testing")
	rootCmd.PersistentFlags().Int("cv-folds", contract.DefaultCVFolds, "Number of time-series cross-validation folds")
	rootCmd.PersistentFlags().Int("clusters", contract.DefaultClusters, "Number of consumption-pattern clusters")
	rootCmd.PersistentFlags().Float64("contamination", contract.DefaultContamination, "Expected anomalous fraction of rows")
	rootCmd.PersistentFlags().Int("sample-size", contract.DefaultSampleSize, "Row cap for attribution computation")
	rootCmd.PersistentFlags().Int64("seed", contract.DefaultSeed, "Seed for all stochastic algorithms")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent model fits")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("artifact-dir", "", "Directory for persisted model artifacts (default ~/.gridscope/models)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
