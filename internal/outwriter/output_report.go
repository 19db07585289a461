package outwriter

import (
	"fmt"
	"io"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
)

// PrintPipelineReport outputs a full pipeline report, dispatching based on the output format configured.
func PrintPipelineReport(report *schema.PipelineReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut, schema.ParquetOut:
		// Tabular formats carry the model section; the rest is text/JSON only
		return PrintModelResults(report.Models, report.BestModel, cfg, report.Duration)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportText(report, cfg, w)
		}, "Wrote report")
	}
}

// writeReportText renders the full report as a sectioned human-readable summary.
func writeReportText(report *schema.PipelineReport, cfg *contract.Config, writer io.Writer) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	// --- 1. Steps log ---
	if _, err := fmt.Fprintf(writer, "%s\n", sectionHeader("Pipeline steps", "🛠️", cfg)); err != nil {
		return err
	}
	for _, step := range report.Steps {
		marker := "ok"
		if !step.OK {
			marker = "FAILED"
		}
		line := fmt.Sprintf("  [%s] %s", marker, step.Stage)
		if step.Detail != "" {
			line += ": " + step.Detail
		}
		if step.Error != "" {
			line += " (" + step.Error + ")"
		}
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}

	// A fatal run has no sections beyond the steps log
	if report.Status == schema.StatusError {
		_, err := fmt.Fprintf(writer, "Pipeline failed after %v: %s\n", report.Duration, report.Error)
		return err
	}

	// --- 2. Data summary ---
	if report.Data != nil {
		if _, err := fmt.Fprintf(writer, "\n%s\n", sectionHeader("Data", "📊", cfg)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(writer, "  %d raw observations, %d usable rows, %d features\n",
			report.Data.RawObservations, report.Data.UsableRows, report.Data.FeatureCount); err != nil {
			return err
		}
	}

	// --- 3. Models ---
	if len(report.Models) > 0 {
		if _, err := fmt.Fprintf(writer, "\n%s\n", sectionHeader("Models", "🤖", cfg)); err != nil {
			return err
		}
		if err := writeModelTable(report.Models, report.BestModel, cfg, fmtFloat, report.Duration, writer); err != nil {
			return err
		}
	}

	// --- 4. Optional sections: present or a one-line failure reason ---
	if _, err := fmt.Fprintf(writer, "\n%s\n", sectionHeader("Segmentation", "🧩", cfg)); err != nil {
		return err
	}
	if report.Clustering != nil {
		if _, err := fmt.Fprintf(writer, "  %d clusters, silhouette %s (%s)\n",
			report.Clustering.ClusterCount, fmtFloat(report.Clustering.SilhouetteScore),
			schema.FormatClusterSizes(report.Clustering.ClusterSizes)); err != nil {
			return err
		}
		for _, line := range report.Clustering.Characteristics {
			if _, err := fmt.Fprintf(writer, "  %s\n", line); err != nil {
				return err
			}
		}
	} else if _, err := fmt.Fprintf(writer, "  skipped: %s\n", report.ClusteringError); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "\n%s\n", sectionHeader("Anomalies", "🚨", cfg)); err != nil {
		return err
	}
	if report.Anomalies != nil {
		for _, line := range report.Anomalies.Summary {
			if _, err := fmt.Fprintf(writer, "  %s\n", line); err != nil {
				return err
			}
		}
	} else if _, err := fmt.Fprintf(writer, "  skipped: %s\n", report.AnomaliesError); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "\n%s\n", sectionHeader("Interpretability", "🔍", cfg)); err != nil {
		return err
	}
	if report.Interpretability != nil {
		for _, line := range report.Interpretability.Summary {
			if _, err := fmt.Fprintf(writer, "  %s\n", line); err != nil {
				return err
			}
		}
	} else if _, err := fmt.Fprintf(writer, "  skipped: %s\n", report.InterpretabilityError); err != nil {
		return err
	}

	// --- 5. Footer ---
	if report.ArtifactPath != "" {
		if _, err := fmt.Fprintf(writer, "\nArtifact saved to: %s\n", report.ArtifactPath); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(writer, "Pipeline %s in %v\n", report.Status, report.Duration)
	return err
}
