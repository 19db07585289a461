package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintAttributionResults outputs the feature attribution, dispatching based on the output format configured.
func PrintAttributionResults(result *schema.FeatureAttribution, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForAttribution(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForAttribution(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAttributionTable(result, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// printJSONResultsForAttribution handles opening the file and calling the JSON writer.
func printJSONResultsForAttribution(result *schema.FeatureAttribution, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON")
}

// printCSVResultsForAttribution handles opening the file and calling the CSV writer.
func printCSVResultsForAttribution(result *schema.FeatureAttribution, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"rank", "feature", "importance", "method"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for i, entry := range result.Entries {
				rec := []string{
					strconv.Itoa(i + 1),
					entry.Feature,
					fmtFloat(entry.Importance),
					result.Method,
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeAttributionTable generates and writes the human-readable table.
func writeAttributionTable(result *schema.FeatureAttribution, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Feature", "Importance"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i, entry := range result.Entries {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			entry.Feature,
			fmtFloat(entry.Importance),
		})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Attribution method: %s\n", result.Method); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Explanation completed in %v.\n", duration); err != nil {
		return err
	}
	return nil
}
