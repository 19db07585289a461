// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints a full pipeline report using the configured output format.
func (ow *OutWriter) WriteReport(report *schema.PipelineReport, cfg *contract.Config) error {
	return PrintPipelineReport(report, cfg)
}

// WriteModels prints model training results using the configured output format.
func (ow *OutWriter) WriteModels(results map[string]schema.ModelResult, bestModel string, cfg *contract.Config, duration time.Duration) error {
	return PrintModelResults(results, bestModel, cfg, duration)
}

// WriteClusters prints clustering results using the configured output format.
func (ow *OutWriter) WriteClusters(result *schema.ClusterAssignment, cfg *contract.Config, duration time.Duration) error {
	return PrintClusterResults(result, cfg, duration)
}

// WriteAnomalies prints anomaly detection results using the configured output format.
func (ow *OutWriter) WriteAnomalies(result *schema.AnomalyFlag, cfg *contract.Config, duration time.Duration) error {
	return PrintAnomalyResults(result, cfg, duration)
}

// WriteAttribution prints feature attribution results using the configured output format.
func (ow *OutWriter) WriteAttribution(result *schema.FeatureAttribution, cfg *contract.Config, duration time.Duration) error {
	return PrintAttributionResults(result, cfg, duration)
}

// WriteFeatures prints the engineered dataset summary using the configured output format.
func (ow *OutWriter) WriteFeatures(summary *schema.DataSummary, featureNames []string, cfg *contract.Config, duration time.Duration) error {
	return PrintFeatureSummary(summary, featureNames, cfg, duration)
}

// WriteRuns prints the tracked run history using the configured output format.
func (ow *OutWriter) WriteRuns(runs []schema.PipelineRunRecord, cfg *contract.Config) error {
	return PrintRunRecords(runs, cfg)
}

// GetMaxTableTextWidth calculates the maximum width for free-text columns
// (cluster characteristics, anomaly findings) based on terminal width.
func GetMaxTableTextWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed index/count columns with borders and padding
	baseWidth := 25

	// Calculate available space for the text column
	available := termWidth - baseWidth
	if available < 20 {
		// Minimum reasonable text width
		return 20
	}
	if available > 90 {
		// Maximum text width to keep tables scannable
		return 90
	}
	return available
}
