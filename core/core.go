// Package core has pipeline orchestration, training and ranking logic.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gridscope/gridscope/core/anomaly"
	"github.com/gridscope/gridscope/core/cluster"
	"github.com/gridscope/gridscope/core/explain"
	"github.com/gridscope/gridscope/core/feature"
	"github.com/gridscope/gridscope/core/model"
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/internal/dataload"
	"github.com/gridscope/gridscope/internal/outwriter"
	"github.com/gridscope/gridscope/internal/runstore"
	"github.com/gridscope/gridscope/schema"
)

// ExecutorFunc defines the function signature for executing different pipeline modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// GetPipelineReport runs the full pipeline and returns its structured
// report. Shared by the CLI entry point and the MCP tools.
func GetPipelineReport(ctx context.Context, cfg *contract.Config) *schema.PipelineReport {
	source := dataload.NewSource(cfg)
	return NewPipeline(cfg, source, runstore.Manager).Run(ctx)
}

// GetModelResults trains the registry, diagnoses the fits and returns
// the results with the winning model's name.
func GetModelResults(ctx context.Context, cfg *contract.Config) (map[string]schema.ModelResult, string, error) {
	ds, _, err := prepareDataset(ctx, cfg)
	if err != nil {
		return nil, "", err
	}
	results, _, err := trainAndDiagnose(ctx, cfg, ds)
	if err != nil {
		return nil, "", err
	}
	return results, SelectBestModel(results), nil
}

// GetClusterResults segments the observation rows into consumption patterns.
func GetClusterResults(ctx context.Context, cfg *contract.Config) (*schema.ClusterAssignment, error) {
	ds, _, err := prepareDataset(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return cluster.NewAnalyzer(cfg).Cluster(ctx, ds)
}

// GetAnomalyResults scores the observation rows for outliers.
func GetAnomalyResults(ctx context.Context, cfg *contract.Config) (*schema.AnomalyFlag, error) {
	ds, _, err := prepareDataset(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return anomaly.NewDetector(cfg).Detect(ctx, ds)
}

// GetAttributionResults trains the registry and attributes the winning model.
func GetAttributionResults(ctx context.Context, cfg *contract.Config) (*schema.FeatureAttribution, error) {
	ds, _, err := prepareDataset(ctx, cfg)
	if err != nil {
		return nil, err
	}
	results, trainer, err := trainAndDiagnose(ctx, cfg, ds)
	if err != nil {
		return nil, err
	}
	bestModel := SelectBestModel(results)

	var predictor explain.Predictor
	if m, ok := trainer.Model(bestModel); ok {
		predictor = m
	}
	return explain.NewExplainer(cfg).Explain(ctx, ds, predictor, trainer.Scaler())
}

// ExecuteRun runs the full pipeline and prints the structured report.
// It serves as the main entry point for the 'run' mode.
func ExecuteRun(ctx context.Context, cfg *contract.Config) error {
	report := GetPipelineReport(ctx, cfg)
	if err := outwriter.NewOutWriter().WriteReport(report, cfg); err != nil {
		return err
	}
	if report.Status == schema.StatusError {
		return errors.New(report.Error)
	}
	return nil
}

// ExecuteFeatures engineers the feature matrix and prints its summary.
// It serves as the main entry point for the 'features' mode.
func ExecuteFeatures(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	ds, summary, err := prepareDataset(ctx, cfg)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteFeatures(summary, ds.FeatureNames, cfg, duration)
}

// ExecuteModels trains the full registry, diagnoses the fits and prints
// the ranked results. It serves as the main entry point for the 'models' mode.
func ExecuteModels(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	results, bestModel, err := GetModelResults(ctx, cfg)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteModels(results, bestModel, cfg, duration)
}

// ExecuteCluster segments the observation rows and prints the cluster
// profiles. It serves as the main entry point for the 'cluster' mode.
func ExecuteCluster(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	assignment, err := GetClusterResults(ctx, cfg)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteClusters(assignment, cfg, duration)
}

// ExecuteAnomalies scores the observation rows for outliers and prints
// the findings. It serves as the main entry point for the 'anomalies' mode.
func ExecuteAnomalies(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	flags, err := GetAnomalyResults(ctx, cfg)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteAnomalies(flags, cfg, duration)
}

// ExecuteExplain trains the registry, attributes the winning model and
// prints the ranked feature importances. Training is required here
// because attribution has no meaning without a fitted model.
// It serves as the main entry point for the 'explain' mode.
func ExecuteExplain(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	attribution, err := GetAttributionResults(ctx, cfg)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteAttribution(attribution, cfg, duration)
}

// ExecuteRunHistory prints the tracked run records from the run store.
func ExecuteRunHistory(_ context.Context, cfg *contract.Config) error {
	store := runstore.Manager.GetRunStore()
	if store == nil {
		return errors.New("run store is not initialized")
	}
	runs, err := store.GetRuns()
	if err != nil {
		return fmt.Errorf("failed to read run history: %w", err)
	}
	return outwriter.NewOutWriter().WriteRuns(runs, cfg)
}

// ExecuteRunStatus prints run store health and aggregate counters.
func ExecuteRunStatus(_ context.Context, _ *contract.Config) error {
	store := runstore.Manager.GetRunStore()
	if store == nil {
		return errors.New("run store is not initialized")
	}
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to read run store status: %w", err)
	}
	runstore.PrintRunStatus(status)
	return nil
}

// ExecuteRunExport exports the tracked runs and metrics to Parquet files.
func ExecuteRunExport(_ context.Context, cfg *contract.Config) error {
	return runstore.ExecuteRunExport(cfg.OutputFile)
}

// prepareDataset acquires the raw observations and engineers the feature
// matrix. This is the shared front half of every single-stage mode.
func prepareDataset(ctx context.Context, cfg *contract.Config) (*schema.Dataset, *schema.DataSummary, error) {
	source := dataload.NewSource(cfg)
	observations, err := source.GetTrainingData(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(observations) == 0 {
		return nil, nil, contract.NewDataError("data source returned no observations")
	}
	return feature.Engineer(observations, feature.OptionsFromConfig(cfg))
}

// trainAndDiagnose fits the registry and classifies every result.
func trainAndDiagnose(ctx context.Context, cfg *contract.Config, ds *schema.Dataset) (map[string]schema.ModelResult, *model.Trainer, error) {
	trainer := model.NewTrainer(cfg)
	results, err := trainer.Train(ctx, ds)
	if err != nil {
		return nil, nil, err
	}
	return model.DiagnoseAll(results, cfg), trainer, nil
}
