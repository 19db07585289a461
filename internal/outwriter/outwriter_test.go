package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{
		Output:       output,
		Precision:    2,
		Width:        120,
		Workers:      4,
		StoreBackend: schema.NoneBackend,
		UseColors:    false,
		UseEmojis:    false,
	}
}

func sampleResults() map[string]schema.ModelResult {
	return map[string]schema.ModelResult{
		"linear": {
			Name:      "linear",
			Train:     schema.Metrics{MAE: 2100.0, R2: 0.82},
			Test:      schema.Metrics{MAE: 2250.5, R2: 0.79},
			CVScore:   2300.1,
			CVStd:     120.5,
			Fit:       schema.WellFit,
			TrainedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			TrainRows: 240,
			TestRows:  60,
		},
		"random_forest": {
			Name:      "random_forest",
			Train:     schema.Metrics{MAE: 700.0, R2: 0.97},
			Test:      schema.Metrics{MAE: 1150.3, R2: 0.91},
			CVScore:   1250.8,
			CVStd:     95.0,
			Fit:       schema.Overfit,
			TrainedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			TrainRows: 240,
			TestRows:  60,
		},
	}
}

func TestWriteModelTable(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeModelTable(sampleResults(), "random_forest", cfg, fmtFloat, time.Second, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "linear")
	assert.Contains(t, output, "random_forest")
	assert.Contains(t, output, "1150.30")
	assert.Contains(t, output, "Overfit")
	assert.Contains(t, output, "Best model: random_forest")
	assert.Contains(t, output, "4 workers")
}

func TestWriteModelCSV(t *testing.T) {
	cfg := testConfig(schema.CSVOut)
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	err := writeCSVResultsForModels(csvWriter, sampleResults(), "random_forest", fmtFloat, intFmt)
	csvWriter.Flush()
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 models

	assert.Equal(t, "model", records[0][0])
	// Sorted model names: linear first
	assert.Equal(t, "linear", records[1][0])
	assert.Equal(t, "false", records[1][8])
	assert.Equal(t, "random_forest", records[2][0])
	assert.Equal(t, "true", records[2][8])
}

func TestWriteModelJSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSONResultsForModels(&buf, sampleResults(), "random_forest")
	require.NoError(t, err)

	var decoded []map[string]any
	err = json.Unmarshal(buf.Bytes(), &decoded)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	assert.Equal(t, "linear", decoded[0]["name"])
	assert.Equal(t, false, decoded[0]["best"])
	assert.Equal(t, "random_forest", decoded[1]["name"])
	assert.Equal(t, true, decoded[1]["best"])
	assert.Equal(t, "Overfit", decoded[1]["label"])
}

func TestWriteClusterTable(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	fmtFloat, _ := createFormatters(cfg.Precision)

	result := &schema.ClusterAssignment{
		ClusterCount:    2,
		SilhouetteScore: 0.61,
		ClusterSizes:    []int{120, 80},
		Characteristics: []string{
			"cluster 0: 120 rows (60.0%), avg load_mw 71234.50, typical hour 14:00",
			"cluster 1: 80 rows (40.0%), avg load_mw 64012.00, typical hour 03:00",
		},
	}

	var buf bytes.Buffer
	err := writeClusterTable(result, cfg, fmtFloat, time.Second, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "cluster 0")
	assert.Contains(t, output, "Silhouette score: 0.61")
	assert.Contains(t, output, "c0=120, c1=80")
}

func TestWriteAnomalyTable(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	fmtFloat, _ := createFormatters(cfg.Precision)

	result := &schema.AnomalyFlag{
		IsAnomaly:    []bool{false, true, false},
		Scores:       []float64{-0.3, -0.8, -0.2},
		NumAnomalies: 1,
		AnomalyRate:  1.0 / 3.0,
		Summary: []string{
			"flagged 1 of 3 rows (33.3%)",
			"2024-01-01T01:00:00Z load_mw 120000.00 (SE/CO)",
		},
	}

	var buf bytes.Buffer
	err := writeAnomalyTable(result, cfg, fmtFloat, time.Second, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "flagged 1 of 3 rows")
	assert.Contains(t, output, "Flagged 1 anomalies (33.33% of rows)")
}

func TestWriteAnomalyCSVOnlyFlaggedRows(t *testing.T) {
	cfg := testConfig(schema.CSVOut)
	cfg.OutputFile = "" // stdout path not taken; we call the row writer directly
	fmtFloat, _ := createFormatters(cfg.Precision)

	result := &schema.AnomalyFlag{
		IsAnomaly: []bool{false, true, true},
		Scores:    []float64{-0.3, -0.8, -0.7},
	}

	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"row", "score", "anomaly"}, func(w *csv.Writer) error {
		for i, score := range result.Scores {
			if !result.IsAnomaly[i] {
				continue
			}
			if err := w.Write([]string{"", fmtFloat(score), "true"}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3) // header + 2 flagged rows
}

func TestWriteAttributionTable(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	fmtFloat, _ := createFormatters(cfg.Precision)

	result := &schema.FeatureAttribution{
		Method: "tree_gain",
		Entries: []schema.AttributionEntry{
			{Feature: "load_lag_1", Importance: 0.55},
			{Feature: "hour", Importance: 0.25},
			{Feature: "temperature", Importance: 0.20},
		},
	}

	var buf bytes.Buffer
	err := writeAttributionTable(result, cfg, fmtFloat, time.Second, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "load_lag_1")
	assert.Contains(t, output, "0.55")
	assert.Contains(t, output, "Attribution method: tree_gain")
}

func TestWriteRunsTable(t *testing.T) {
	endedAt := time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)
	durationMs := int32(300000)
	numModels := int32(4)

	runs := []schema.PipelineRunRecord{
		{
			RunID:      1,
			StartedAt:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			EndedAt:    &endedAt,
			DurationMs: &durationMs,
			Status:     "completed",
			NumModels:  &numModels,
		},
		{
			RunID:     2,
			StartedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
			Status:    "running",
		},
	}

	var buf bytes.Buffer
	err := writeRunsTable(runs, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "300000ms")
	assert.Contains(t, output, "completed")
	assert.Contains(t, output, "running")
	// Nullable columns render as dashes for unfinished runs
	assert.Contains(t, output, "-")
	assert.Contains(t, output, "Showing 2 tracked runs")
}

func TestWriteReportText(t *testing.T) {
	cfg := testConfig(schema.TextOut)

	report := &schema.PipelineReport{
		Status:    schema.StatusCompleted,
		Models:    sampleResults(),
		BestModel: "random_forest",
		Data: &schema.DataSummary{
			RawObservations: 400,
			UsableRows:      376,
			FeatureCount:    18,
		},
		Clustering: &schema.ClusterAssignment{
			ClusterCount:    2,
			SilhouetteScore: 0.6,
			ClusterSizes:    []int{200, 176},
		},
		AnomaliesError:        "not enough rows for anomaly detection",
		InterpretabilityError: "no fitted model available",
		ArtifactPath:          "/tmp/models/random_forest.json",
		Duration:              2 * time.Second,
	}
	report.AppendStep(schema.StagePreparing, true, "loaded 400 observations", nil)
	report.AppendStep(schema.StageTraining, true, "trained 2 models", nil)

	var buf bytes.Buffer
	err := writeReportText(report, cfg, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "[ok] preparing: loaded 400 observations")
	assert.Contains(t, output, "400 raw observations, 376 usable rows, 18 features")
	assert.Contains(t, output, "Best model: random_forest")
	assert.Contains(t, output, "2 clusters, silhouette 0.60")
	assert.Contains(t, output, "skipped: not enough rows for anomaly detection")
	assert.Contains(t, output, "skipped: no fitted model available")
	assert.Contains(t, output, "Artifact saved to: /tmp/models/random_forest.json")
	assert.Contains(t, output, "Pipeline completed in 2s")
}

func TestWriteReportTextFatal(t *testing.T) {
	cfg := testConfig(schema.TextOut)

	report := &schema.PipelineReport{
		Status:   schema.StatusError,
		Error:    "no observations available",
		Duration: time.Second,
	}
	report.AppendStep(schema.StagePreparing, false, "", assert.AnError)

	var buf bytes.Buffer
	err := writeReportText(report, cfg, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "[FAILED] preparing")
	assert.Contains(t, output, "Pipeline failed after 1s: no observations available")
	// Fatal runs stop at the steps log
	assert.NotContains(t, output, "Segmentation")
}

func TestWriteReportEmojiHeaders(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	cfg.UseEmojis = true

	report := &schema.PipelineReport{
		Status:   schema.StatusCompleted,
		Duration: time.Second,
	}

	var buf bytes.Buffer
	err := writeReportText(report, cfg, &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "🛠️ Pipeline steps")
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"short text untouched", "hello", 10, "hello"},
		{"exact length untouched", "hello", 5, "hello"},
		{"long text truncated", "hello world", 8, "hello..."},
		{"tiny budget keeps ellipsis", "hello", 2, "..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, truncateText(tc.input, tc.maxLen))
		})
	}
}

func TestGetMaxTableTextWidth(t *testing.T) {
	// Wide override
	cfg := testConfig(schema.TextOut)
	cfg.Width = 200
	assert.Equal(t, 90, GetMaxTableTextWidth(cfg))

	// Narrow override clamps at the minimum
	cfg.Width = 30
	assert.Equal(t, 20, GetMaxTableTextWidth(cfg))

	// Mid-range leaves the remainder
	cfg.Width = 100
	assert.Equal(t, 75, GetMaxTableTextWidth(cfg))
}

func TestCreateFormatters(t *testing.T) {
	fmtFloat, intFmt := createFormatters(3)
	assert.Equal(t, "1.500", fmtFloat(1.5))
	assert.Equal(t, "%d", intFmt)
}
