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

// PrintAnomalyResults outputs the anomaly detection results, dispatching based on the output format configured.
func PrintAnomalyResults(result *schema.AnomalyFlag, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForAnomalies(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForAnomalies(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnomalyTable(result, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// printJSONResultsForAnomalies handles opening the file and calling the JSON writer.
func printJSONResultsForAnomalies(result *schema.AnomalyFlag, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON")
}

// printCSVResultsForAnomalies handles opening the file and calling the CSV writer.
func printCSVResultsForAnomalies(result *schema.AnomalyFlag, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"row", "score", "anomaly"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for i, score := range result.Scores {
				flagged := i < len(result.IsAnomaly) && result.IsAnomaly[i]
				if !flagged {
					continue // CSV lists only the flagged rows
				}
				rec := []string{
					strconv.Itoa(i),
					fmtFloat(score),
					"true",
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeAnomalyTable generates and writes the human-readable table.
func writeAnomalyTable(result *schema.AnomalyFlag, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"#", "Finding"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows with the summary findings
	maxWidth := GetMaxTableTextWidth(cfg)
	var data [][]string
	for i, finding := range result.Summary {
		text := truncateText(finding, maxWidth)
		if cfg.UseColors && i > 0 {
			// The first line is the headline; the rest are flagged rows
			text = contract.AnomalyColor.Sprint(text)
		}
		data = append(data, []string{strconv.Itoa(i + 1), text})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Flagged %d anomalies (%s%% of rows)\n", result.NumAnomalies, fmtFloat(result.AnomalyRate*100)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Anomaly detection completed in %v.\n", duration); err != nil {
		return err
	}
	return nil
}
