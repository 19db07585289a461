package core

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pipelineConfig() *contract.Config {
	return &contract.Config{
		TargetColumn:    contract.DefaultTargetColumn,
		TimestampColumn: contract.DefaultTimestampColumn,
		GroupColumn:     contract.DefaultGroupColumn,
		LagOffsets:      []int{1, 24},
		RollingWindows:  []int{24},
		PeakStartHour:   contract.DefaultPeakStartHour,
		PeakEndHour:     contract.DefaultPeakEndHour,
		TestFraction:    contract.DefaultTestFraction,
		CVFolds:         contract.DefaultCVFolds,
		Clusters:        contract.DefaultClusters,
		Contamination:   contract.DefaultContamination,
		SampleSize:      contract.DefaultSampleSize,
		Seed:            contract.DefaultSeed,
		Workers:         contract.DefaultWorkers,
		OverfitGapRatio: contract.DefaultOverfitGapRatio,
		OverfitR2Gap:    contract.DefaultOverfitR2Gap,
		UnderfitR2:      contract.DefaultUnderfitR2,
		Precision:       contract.DefaultPrecision,
	}
}

// hourlyObservations builds a sinusoidal load series with a daily cycle.
func hourlyObservations(n int) []schema.Observation {
	out := make([]schema.Observation, n)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range n {
		ts := start.Add(time.Duration(i) * time.Hour)
		out[i] = schema.Observation{
			Timestamp: ts,
			Group:     "SE/CO",
			Target:    1200 + 300*math.Sin(2*math.Pi*float64(ts.Hour())/24),
			Exogenous: map[string]float64{"temperature": 22 + 5*math.Sin(float64(i)/100)},
		}
	}
	return out
}

func sourceFor(observations []schema.Observation, err error) *contract.MockDataSource {
	source := &contract.MockDataSource{}
	source.On("GetTrainingData", mock.Anything).Return(observations, err)
	return source
}

func TestPipelineCompletes(t *testing.T) {
	pipeline := NewPipeline(pipelineConfig(), sourceFor(hourlyObservations(400), nil), nil)
	report := pipeline.Run(context.Background())

	assert.Equal(t, schema.StatusCompleted, report.Status)
	assert.Empty(t, report.Error)
	require.NotNil(t, report.Data)
	assert.Equal(t, 400, report.Data.RawObservations)

	require.Len(t, report.Models, 4)
	assert.NotEmpty(t, report.BestModel)
	for _, result := range report.Models {
		assert.NotEmpty(t, result.Fit)
	}

	assert.NotNil(t, report.Clustering)
	assert.NotNil(t, report.Anomalies)
	assert.NotNil(t, report.Interpretability)
	assert.False(t, report.StartedAt.IsZero())
	assert.Positive(t, report.Duration)
}

func TestPipelineStepsLogCoversEveryStage(t *testing.T) {
	pipeline := NewPipeline(pipelineConfig(), sourceFor(hourlyObservations(400), nil), nil)
	report := pipeline.Run(context.Background())

	seen := make(map[schema.Stage]bool)
	for _, step := range report.Steps {
		seen[step.Stage] = true
		assert.True(t, step.OK, string(step.Stage))
	}
	for _, stage := range []schema.Stage{
		schema.StagePreparing, schema.StageFeatures, schema.StageTraining,
		schema.StageDiagnosing, schema.StageClustering, schema.StageAnomalies,
		schema.StageExplaining,
	} {
		assert.True(t, seen[stage], string(stage))
	}
}

func TestPipelineDegradesWhenClusteringImpossible(t *testing.T) {
	cfg := pipelineConfig()
	cfg.Clusters = 100000 // more clusters than rows

	pipeline := NewPipeline(cfg, sourceFor(hourlyObservations(300), nil), nil)
	report := pipeline.Run(context.Background())

	assert.Equal(t, schema.StatusCompleted, report.Status)
	assert.Nil(t, report.Clustering)
	assert.NotEmpty(t, report.ClusteringError)

	// The downstream optional stages still ran.
	assert.NotNil(t, report.Anomalies)
	assert.NotNil(t, report.Interpretability)
}

func TestPipelineEmptySourceIsFatal(t *testing.T) {
	pipeline := NewPipeline(pipelineConfig(), sourceFor(nil, nil), nil)
	report := pipeline.Run(context.Background())

	assert.Equal(t, schema.StatusError, report.Status)
	assert.NotEmpty(t, report.Error)
	assert.Empty(t, report.Models)
	assert.Empty(t, report.BestModel)
	require.NotEmpty(t, report.Steps)
	assert.False(t, report.Steps[0].OK)
}

func TestPipelineSourceErrorIsFatal(t *testing.T) {
	pipeline := NewPipeline(pipelineConfig(),
		sourceFor(nil, errors.New("connector unavailable")), nil)
	report := pipeline.Run(context.Background())

	assert.Equal(t, schema.StatusError, report.Status)
	assert.Contains(t, report.Error, "connector unavailable")
}

func TestPipelinePersistsWinner(t *testing.T) {
	artifacts := &contract.MockArtifactStore{}
	artifacts.On("Save", mock.Anything).Return("/tmp/models/best.json", nil)
	runs := &contract.MockRunStore{}
	runs.On("BeginRun", mock.Anything).Return(int64(11), nil)
	runs.On("RecordModel", int64(11), mock.Anything).Return(nil)
	runs.On("EndRun", int64(11), schema.StatusCompleted, 4).Return(nil)

	stores := &contract.MockStoreManager{}
	stores.On("GetArtifactStore").Return(artifacts)
	stores.On("GetRunStore").Return(runs)

	pipeline := NewPipeline(pipelineConfig(), sourceFor(hourlyObservations(400), nil), stores)
	report := pipeline.Run(context.Background())

	require.Equal(t, schema.StatusCompleted, report.Status)
	assert.Equal(t, "/tmp/models/best.json", report.ArtifactPath)
	artifacts.AssertExpectations(t)
	runs.AssertExpectations(t)
	runs.AssertNumberOfCalls(t, "RecordModel", 4)
}

func TestPipelineSurvivesTrackingFailure(t *testing.T) {
	runs := &contract.MockRunStore{}
	runs.On("BeginRun", mock.Anything).Return(int64(0), errors.New("db down"))
	artifacts := &contract.MockArtifactStore{}
	artifacts.On("Save", mock.Anything).Return("", errors.New("disk full"))

	stores := &contract.MockStoreManager{}
	stores.On("GetRunStore").Return(runs)
	stores.On("GetArtifactStore").Return(artifacts)

	pipeline := NewPipeline(pipelineConfig(), sourceFor(hourlyObservations(300), nil), stores)
	report := pipeline.Run(context.Background())

	assert.Equal(t, schema.StatusCompleted, report.Status)
	assert.Empty(t, report.ArtifactPath)
}

func TestRunAsyncDeliversReport(t *testing.T) {
	pipeline := NewPipeline(pipelineConfig(), sourceFor(hourlyObservations(300), nil), nil)

	select {
	case report := <-pipeline.RunAsync(context.Background()):
		require.NotNil(t, report)
		assert.Equal(t, schema.StatusCompleted, report.Status)
	case <-time.After(2 * time.Minute):
		t.Fatal("pipeline did not finish in time")
	}
}
