package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/internal/parquet"
	"github.com/gridscope/gridscope/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRunRecords outputs the tracked run history, dispatching based on the output format configured.
func PrintRunRecords(runs []schema.PipelineRunRecord, cfg *contract.Config) error {
	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"run_id", "started_at", "ended_at", "duration_ms", "status", "num_models"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				for _, r := range runs {
					if err := csvWriter.Write(runRecordCSVRow(r)); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("--output-file is required for parquet output")
		}
		return parquet.WritePipelineRunsParquet(parquet.ConvertPipelineRunRecords(runs), cfg.OutputFile)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsTable(runs, w)
		}, "Wrote table")
	}
}

// runRecordCSVRow renders one run as CSV cells, leaving nullable columns empty.
func runRecordCSVRow(r schema.PipelineRunRecord) []string {
	endedAt := ""
	if r.EndedAt != nil {
		endedAt = r.EndedAt.Format(contract.DateTimeFormat)
	}
	durationMs := ""
	if r.DurationMs != nil {
		durationMs = strconv.Itoa(int(*r.DurationMs))
	}
	numModels := ""
	if r.NumModels != nil {
		numModels = strconv.Itoa(int(*r.NumModels))
	}
	return []string{
		strconv.FormatInt(r.RunID, 10),
		r.StartedAt.Format(contract.DateTimeFormat),
		endedAt,
		durationMs,
		r.Status,
		numModels,
	}
}

// writeRunsTable generates and writes the human-readable table.
func writeRunsTable(runs []schema.PipelineRunRecord, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Run", "Started", "Duration", "Status", "Models"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for _, r := range runs {
		duration := "-"
		if r.DurationMs != nil {
			duration = fmt.Sprintf("%dms", *r.DurationMs)
		}
		numModels := "-"
		if r.NumModels != nil {
			numModels = strconv.Itoa(int(*r.NumModels))
		}
		data = append(data, []string{
			strconv.FormatInt(r.RunID, 10),
			r.StartedAt.Format("2006-01-02 15:04:05"),
			duration,
			r.Status,
			numModels,
		})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "Showing %d tracked runs\n", len(runs))
	return err
}
