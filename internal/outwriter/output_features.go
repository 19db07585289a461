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

// PrintFeatureSummary outputs the engineered dataset summary, dispatching based on the output format configured.
func PrintFeatureSummary(summary *schema.DataSummary, featureNames []string, cfg *contract.Config, duration time.Duration) error {
	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			out := struct {
				*schema.DataSummary
				Features []string `json:"features"`
			}{summary, featureNames}
			return writeJSON(w, out)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"index", "feature"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				for i, name := range featureNames {
					if err := csvWriter.Write([]string{strconv.Itoa(i), name}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFeatureTable(summary, featureNames, cfg, duration, w)
		}, "Wrote table")
	}
}

// writeFeatureTable generates and writes the human-readable table.
func writeFeatureTable(summary *schema.DataSummary, featureNames []string, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"#", "Feature"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i, name := range featureNames {
		data = append(data, []string{strconv.Itoa(i + 1), name})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Engineered %d features over %d usable rows (%d raw, %d dropped for lag/rolling warmup)\n",
		summary.FeatureCount, summary.UsableRows, summary.RawObservations, summary.DroppedRows); err != nil {
		return err
	}
	if !summary.RangeStart.IsZero() {
		if _, err := fmt.Fprintf(writer, "Time range: %s to %s\n",
			summary.RangeStart.Format(contract.DateTimeFormat), summary.RangeEnd.Format(contract.DateTimeFormat)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Feature engineering completed in %v.\n", duration); err != nil {
		return err
	}
	return nil
}
