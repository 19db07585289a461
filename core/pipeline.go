package core

import (
	"context"
	"fmt"
	"time"

	"github.com/gridscope/gridscope/core/anomaly"
	"github.com/gridscope/gridscope/core/cluster"
	"github.com/gridscope/gridscope/core/explain"
	"github.com/gridscope/gridscope/core/feature"
	"github.com/gridscope/gridscope/core/model"
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
)

// Pipeline sequences the analysis stages over one observation series.
// Acquisition, feature engineering and training are fatal stages;
// clustering, anomaly detection and explanation degrade gracefully by
// recording their failure in the report and moving on. Persistence is
// best-effort and never fails a run.
type Pipeline struct {
	cfg    *contract.Config
	source contract.DataSource
	stores contract.StoreManager // nil disables persistence

	trainer *model.Trainer // set once training succeeds
}

// NewPipeline wires an orchestrator from its boundaries.
func NewPipeline(cfg *contract.Config, source contract.DataSource, stores contract.StoreManager) *Pipeline {
	return &Pipeline{cfg: cfg, source: source, stores: stores}
}

// Run executes every stage and always returns a well-formed report;
// fatal failures are expressed through the report's status and error.
func (p *Pipeline) Run(ctx context.Context) *schema.PipelineReport {
	report := &schema.PipelineReport{
		Status:    schema.StatusRunning,
		StartedAt: time.Now().UTC(),
	}
	runID := p.beginTracking()

	ds := p.runFatalStages(ctx, report)
	if ds == nil {
		report.Status = schema.StatusError
	} else {
		p.runOptionalStages(ctx, report, ds)
		report.Status = schema.StatusCompleted
	}

	p.persist(report, runID)
	p.endTracking(runID, report)
	report.Duration = time.Since(report.StartedAt)
	return report
}

// runFatalStages covers acquisition through diagnosis. A nil return
// means the run cannot continue; the failing stage has already set
// report.Error.
func (p *Pipeline) runFatalStages(ctx context.Context, report *schema.PipelineReport) *schema.Dataset {
	// --- 1. Acquire raw observations ---
	observations, err := p.source.GetTrainingData(ctx)
	if err == nil && len(observations) == 0 {
		err = contract.NewDataError("data source returned no observations")
	}
	if err != nil {
		report.AppendStep(schema.StagePreparing, false, "", err)
		report.Error = err.Error()
		return nil
	}
	report.AppendStep(schema.StagePreparing, true,
		fmt.Sprintf("%d observations acquired", len(observations)), nil)

	// --- 2. Derive the feature matrix ---
	ds, summary, err := feature.Engineer(observations, feature.OptionsFromConfig(p.cfg))
	if err != nil {
		report.AppendStep(schema.StageFeatures, false, "", err)
		report.Error = err.Error()
		return nil
	}
	report.Data = summary
	report.AppendStep(schema.StageFeatures, true,
		fmt.Sprintf("%d rows x %d features", ds.NumRows(), ds.NumFeatures()), nil)

	// --- 3. Train the registry ---
	trainer := model.NewTrainer(p.cfg)
	results, err := trainer.Train(ctx, ds)
	if err != nil {
		report.AppendStep(schema.StageTraining, false, "", err)
		report.Error = err.Error()
		return nil
	}
	p.trainer = trainer
	report.AppendStep(schema.StageTraining, true,
		fmt.Sprintf("%d of %d algorithms fitted", len(results), len(model.Registry())), nil)

	// --- 4. Diagnose and pick the winner ---
	report.Models = model.DiagnoseAll(results, p.cfg)
	report.BestModel = SelectBestModel(report.Models)
	best := report.Models[report.BestModel]
	report.AppendStep(schema.StageDiagnosing, true,
		fmt.Sprintf("best %s (test MAE %.*f, %s)",
			report.BestModel, p.cfg.Precision, best.Test.MAE, schema.FitLabel(best.Fit)), nil)
	return ds
}

// runOptionalStages covers the non-fatal analyses. Each failure lands in
// its report section and the steps log, never in report.Error.
func (p *Pipeline) runOptionalStages(ctx context.Context, report *schema.PipelineReport, ds *schema.Dataset) {
	// --- 5. Consumption-pattern clustering ---
	assignment, err := cluster.NewAnalyzer(p.cfg).Cluster(ctx, ds)
	if err != nil {
		report.ClusteringError = err.Error()
		report.AppendStep(schema.StageClustering, false, "", err)
	} else {
		report.Clustering = assignment
		report.AppendStep(schema.StageClustering, true,
			fmt.Sprintf("%d clusters, silhouette %.3f",
				assignment.ClusterCount, assignment.SilhouetteScore), nil)
	}

	// --- 6. Outlier detection ---
	flags, err := anomaly.NewDetector(p.cfg).Detect(ctx, ds)
	if err != nil {
		report.AnomaliesError = err.Error()
		report.AppendStep(schema.StageAnomalies, false, "", err)
	} else {
		report.Anomalies = flags
		report.AppendStep(schema.StageAnomalies, true,
			fmt.Sprintf("%d anomalies (%.1f%%)", flags.NumAnomalies, 100*flags.AnomalyRate), nil)
	}

	// --- 7. Attribution for the winning model ---
	attribution, err := p.explainBest(ctx, report, ds)
	if err != nil {
		report.InterpretabilityError = err.Error()
		report.AppendStep(schema.StageExplaining, false, "", err)
	} else {
		report.Interpretability = attribution
		report.AppendStep(schema.StageExplaining, true,
			fmt.Sprintf("method %s", attribution.Method), nil)
	}
}

// explainBest attributes the winning model, or a uniform fallback when
// no fitted model is reachable.
func (p *Pipeline) explainBest(ctx context.Context, report *schema.PipelineReport, ds *schema.Dataset) (*schema.FeatureAttribution, error) {
	var predictor explain.Predictor
	var scaler *feature.StandardScaler
	if p.trainer != nil {
		if m, ok := p.trainer.Model(report.BestModel); ok {
			predictor = m
			scaler = p.trainer.Scaler()
		}
	}
	return explain.NewExplainer(p.cfg).Explain(ctx, ds, predictor, scaler)
}

// persist saves the winning model's artifact and logs the outcome. Any
// failure downgrades to a step entry.
func (p *Pipeline) persist(report *schema.PipelineReport, runID int64) {
	if p.stores == nil || p.trainer == nil || report.BestModel == "" {
		return
	}
	store := p.stores.GetArtifactStore()
	if store == nil {
		return
	}
	artifact, err := p.trainer.Artifact(report.BestModel, runID)
	if err == nil {
		report.ArtifactPath, err = store.Save(artifact)
	}
	if err != nil {
		report.AppendStep(schema.StagePersisting, false, "", err)
		return
	}
	report.AppendStep(schema.StagePersisting, true, report.ArtifactPath, nil)
}

// beginTracking opens a run record; tracking trouble is reported but
// never blocks the pipeline.
func (p *Pipeline) beginTracking() int64 {
	store := p.runStore()
	if store == nil {
		return 0
	}
	runID, err := store.BeginRun(p.trackingParams())
	if err != nil {
		contract.LogWarn("run tracking disabled for this run", err)
		return 0
	}
	return runID
}

// endTracking writes per-model metrics and finalizes the run record.
func (p *Pipeline) endTracking(runID int64, report *schema.PipelineReport) {
	store := p.runStore()
	if store == nil || runID == 0 {
		return
	}
	for _, name := range schema.SortedModelNames(report.Models) {
		result := report.Models[name]
		rec := &schema.ModelMetricsRecord{
			RunID:     runID,
			ModelName: name,
			TrainedAt: result.TrainedAt,
			TrainMAE:  result.Train.MAE,
			TestMAE:   result.Test.MAE,
			TrainR2:   result.Train.R2,
			TestR2:    result.Test.R2,
			CVScore:   result.CVScore,
			FitStatus: string(result.Fit),
			BestModel: name == report.BestModel,
		}
		if err := store.RecordModel(runID, rec); err != nil {
			contract.LogWarn("failed to record model metrics", err)
			break
		}
	}
	if err := store.EndRun(runID, report.Status, len(report.Models)); err != nil {
		contract.LogWarn("failed to finalize run record", err)
	}
}

func (p *Pipeline) runStore() contract.RunStore {
	if p.stores == nil {
		return nil
	}
	return p.stores.GetRunStore()
}

// trackingParams captures the knobs that shaped this run.
func (p *Pipeline) trackingParams() map[string]any {
	return map[string]any{
		"target":        p.cfg.TargetColumn,
		"test_fraction": p.cfg.TestFraction,
		"cv_folds":      p.cfg.CVFolds,
		"clusters":      p.cfg.Clusters,
		"contamination": p.cfg.Contamination,
		"seed":          p.cfg.Seed,
		"synthetic":     p.cfg.Synthetic,
	}
}
