package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/internal/parquet"
	"github.com/gridscope/gridscope/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintModelResults outputs the training results, dispatching based on the output format configured.
func PrintModelResults(results map[string]schema.ModelResult, bestModel string, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForModels(results, bestModel, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForModels(results, bestModel, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printParquetResultsForModels(results, bestModel, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeModelTable(results, bestModel, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// printJSONResultsForModels handles opening the file and calling the JSON writer.
func printJSONResultsForModels(results map[string]schema.ModelResult, bestModel string, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForModels(w, results, bestModel)
	}, "Wrote JSON")
}

// printCSVResultsForModels handles opening the file and calling the CSV writer.
func printCSVResultsForModels(results map[string]schema.ModelResult, bestModel string, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForModels(csvWriter, results, bestModel, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// printParquetResultsForModels converts the results to metric records and writes
// them with the Parquet exporter. Parquet output always needs a file target.
func printParquetResultsForModels(results map[string]schema.ModelResult, bestModel string, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}

	records := make([]schema.ModelMetricsRecord, 0, len(results))
	for _, name := range schema.SortedModelNames(results) {
		r := results[name]
		records = append(records, schema.ModelMetricsRecord{
			ModelName: r.Name,
			TrainedAt: r.TrainedAt,
			TrainMAE:  r.Train.MAE,
			TestMAE:   r.Test.MAE,
			TrainR2:   r.Train.R2,
			TestR2:    r.Test.R2,
			CVScore:   r.CVScore,
			FitStatus: contract.GetPlainFitLabel(r.Fit),
			BestModel: r.Name == bestModel,
		})
	}

	return parquet.WriteModelMetricsParquet(parquet.ConvertModelMetricsRecords(records), cfg.OutputFile)
}

// writeModelTable generates and writes the human-readable table.
func writeModelTable(results map[string]schema.ModelResult, bestModel string, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Model", "Train MAE", "Test MAE", "Train R2", "Test R2", "CV MAE", "Fit", "Best"}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for _, name := range schema.SortedModelNames(results) {
		r := results[name]
		best := ""
		if r.Name == bestModel {
			best = "*"
			if cfg.UseColors {
				best = contract.BestColor.Sprint("*")
			}
		}
		row := []string{
			r.Name,
			fmtFloat(r.Train.MAE),
			fmtFloat(r.Test.MAE),
			fmtFloat(r.Train.R2),
			fmtFloat(r.Test.R2),
			fmtFloat(r.CVScore),
			fitLabel(r.Fit, cfg),
			best,
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if bestModel != "" {
		if _, err := fmt.Fprintf(writer, "Best model: %s (lowest test MAE)\n", bestModel); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Training completed in %v with %d workers. Store backend: %s\n", duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForModels writes the training results in CSV format.
func writeCSVResultsForModels(w *csv.Writer, results map[string]schema.ModelResult, bestModel string, fmtFloat func(float64) string, intFmt string) error {
	// CSV header
	header := []string{
		"model",
		"train_mae",
		"test_mae",
		"train_r2",
		"test_r2",
		"cv_mae",
		"cv_std",
		"fit",
		"best",
		"train_rows",
		"test_rows",
		"trained_at",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, name := range schema.SortedModelNames(results) {
		r := results[name]
		rec := []string{
			r.Name,
			fmtFloat(r.Train.MAE),
			fmtFloat(r.Test.MAE),
			fmtFloat(r.Train.R2),
			fmtFloat(r.Test.R2),
			fmtFloat(r.CVScore),
			fmtFloat(r.CVStd),
			contract.GetPlainFitLabel(r.Fit),
			fmt.Sprintf("%t", r.Name == bestModel),
			fmt.Sprintf(intFmt, r.TrainRows),
			fmt.Sprintf(intFmt, r.TestRows),
			r.TrainedAt.Format(contract.DateTimeFormat),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForModels writes the training results in JSON format.
func writeJSONResultsForModels(w io.Writer, results map[string]schema.ModelResult, bestModel string) error {
	// 1. Prepare the data structure for JSON with rank and best flag added
	type JSONModelResult struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		Best  bool   `json:"best"`
		schema.ModelResult
	}

	output := make([]JSONModelResult, 0, len(results))
	for i, name := range schema.SortedModelNames(results) {
		r := results[name]
		output = append(output, JSONModelResult{
			Rank:        i + 1,
			Label:       contract.GetPlainFitLabel(r.Fit),
			Best:        r.Name == bestModel,
			ModelResult: r,
		})
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}
