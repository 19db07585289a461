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

// PrintClusterResults outputs the clustering results, dispatching based on the output format configured.
func PrintClusterResults(result *schema.ClusterAssignment, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForClusters(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForClusters(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeClusterTable(result, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// printJSONResultsForClusters handles opening the file and calling the JSON writer.
func printJSONResultsForClusters(result *schema.ClusterAssignment, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON")
}

// printCSVResultsForClusters handles opening the file and calling the CSV writer.
func printCSVResultsForClusters(result *schema.ClusterAssignment, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"cluster", "size", "share", "characteristic"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			total := 0
			for _, n := range result.ClusterSizes {
				total += n
			}
			for i, size := range result.ClusterSizes {
				share := 0.0
				if total > 0 {
					share = float64(size) / float64(total)
				}
				characteristic := ""
				if i < len(result.Characteristics) {
					characteristic = result.Characteristics[i]
				}
				rec := []string{
					strconv.Itoa(i),
					strconv.Itoa(size),
					fmtFloat(share * 100),
					characteristic,
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeClusterTable generates and writes the human-readable table.
func writeClusterTable(result *schema.ClusterAssignment, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Cluster", "Size", "Characteristic"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	maxWidth := GetMaxTableTextWidth(cfg)
	var data [][]string
	for i, size := range result.ClusterSizes {
		characteristic := ""
		if i < len(result.Characteristics) {
			characteristic = truncateText(result.Characteristics[i], maxWidth)
		}
		data = append(data, []string{
			strconv.Itoa(i),
			strconv.Itoa(size),
			characteristic,
		})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Silhouette score: %s (sizes: %s)\n", fmtFloat(result.SilhouetteScore), schema.FormatClusterSizes(result.ClusterSizes)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Clustering completed in %v with %d clusters.\n", duration, result.ClusterCount); err != nil {
		return err
	}
	return nil
}
