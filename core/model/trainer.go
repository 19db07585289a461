package model

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gridscope/gridscope/core/feature"
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
)

// Trainer fits every algorithm in the registry against one dataset.
// It owns the fitted models and the feature scaler; result structs that
// leave the trainer carry metrics only.
type Trainer struct {
	cfg      *contract.Config
	registry map[string]Factory

	mu     sync.Mutex
	fitted map[string]Model
	scaler *feature.StandardScaler
	names  []string
}

// fitOutcome is the per-algorithm unit of work passed between the
// training workers and the collector.
type fitOutcome struct {
	name   string
	result schema.ModelResult
	err    error
}

// NewTrainer builds a trainer over the fixed registry.
func NewTrainer(cfg *contract.Config) *Trainer {
	return &Trainer{
		cfg:      cfg,
		registry: Registry(),
		fitted:   make(map[string]Model),
	}
}

// Train splits the dataset chronologically, standardizes features on the
// training window, and fits every registered algorithm concurrently.
// Individual algorithm failures are tolerated; an error is returned only
// when no algorithm could be fitted at all.
func (t *Trainer) Train(ctx context.Context, ds *schema.Dataset) (map[string]schema.ModelResult, error) {
	trainRows, testRows, err := splitSizes(ds.NumRows(), t.cfg.TestFraction)
	if err != nil {
		return nil, err
	}

	// --- 1. Chronological split, then scale on the training window ---
	train := ds.Slice(0, trainRows)
	test := ds.Slice(trainRows, trainRows+testRows)
	scaler := feature.NewStandardScaler(train.X)
	trainX := scaler.Transform(train.X)
	testX := scaler.Transform(test.X)
	trainY := train.Y
	testY := test.Y

	t.mu.Lock()
	t.scaler = scaler
	t.names = ds.FeatureNames
	t.mu.Unlock()

	// --- 2. Fit all algorithms with a bounded worker pool ---
	nameCh := make(chan string, len(t.registry))
	outcomeCh := make(chan fitOutcome, len(t.registry))
	var wg sync.WaitGroup

	workers := t.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(t.registry) {
		workers = len(t.registry)
	}
	for range workers {
		wg.Go(func() {
			for name := range nameCh {
				outcomeCh <- t.fitOne(ctx, name, trainX, trainY, testX, testY)
			}
		})
	}
	for name := range t.registry {
		nameCh <- name
	}
	close(nameCh)
	wg.Wait()
	close(outcomeCh)

	// --- 3. Collect results, tolerating per-algorithm failures ---
	results := make(map[string]schema.ModelResult, len(t.registry))
	var failures []error
	for outcome := range outcomeCh {
		if outcome.err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", outcome.name, outcome.err))
			continue
		}
		results[outcome.name] = outcome.result
	}
	if len(results) == 0 {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &contract.StageError{
			Kind: contract.TrainingErrorKind,
			Err:  fmt.Errorf("all %d algorithms failed: %v", len(t.registry), failures),
		}
	}
	for _, f := range failures {
		contract.LogWarn("algorithm skipped", f)
	}
	return results, nil
}

// fitOne fits a single algorithm and computes its train/test/CV metrics.
func (t *Trainer) fitOne(ctx context.Context, name string, trainX [][]float64, trainY []float64, testX [][]float64, testY []float64) fitOutcome {
	if err := ctx.Err(); err != nil {
		return fitOutcome{name: name, err: err}
	}
	factory := t.registry[name]
	seed := deriveSeed(t.cfg.Seed, name)

	m := factory(seed)
	if err := m.Fit(trainX, trainY); err != nil {
		return fitOutcome{name: name, err: err}
	}

	result := schema.ModelResult{
		Name:        name,
		Train:       Evaluate(m, trainX, trainY),
		Test:        Evaluate(m, testX, testY),
		Importances: m.Importances(),
		TrainedAt:   time.Now().UTC(),
		TrainRows:   len(trainX),
		TestRows:    len(testX),
	}
	if mean, std, ok := crossValidate(factory, seed, trainX, trainY, t.cfg.CVFolds); ok {
		result.CVScore = mean
		result.CVStd = std
	}

	t.mu.Lock()
	t.fitted[name] = m
	t.mu.Unlock()
	return fitOutcome{name: name, result: result}
}

// Model returns a fitted algorithm by name.
func (t *Trainer) Model(name string) (Model, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.fitted[name]
	return m, ok
}

// Scaler returns the standardizer fitted on the training window, or nil
// before Train has run.
func (t *Trainer) Scaler() *feature.StandardScaler {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scaler
}

// Artifact packages a fitted model with its scaler for persistence.
func (t *Trainer) Artifact(name string, runID int64) (*schema.ModelArtifact, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.fitted[name]
	if !ok {
		return nil, fmt.Errorf("no fitted model named %q", name)
	}
	if t.scaler == nil {
		return nil, fmt.Errorf("no scaler fitted for model %q", name)
	}
	return &schema.ModelArtifact{
		ModelName:    name,
		RunID:        runID,
		FeatureNames: t.names,
		ScalerMeans:  t.scaler.Means,
		ScalerStds:   t.scaler.Stds,
		Params:       m.Params(),
		SavedAt:      time.Now().UTC(),
	}, nil
}

// splitSizes computes the chronological train/test row counts. The test
// window always keeps at least one row, and training needs enough rows
// for the smallest tree split.
func splitSizes(n int, testFraction float64) (int, int, error) {
	if n == 0 {
		return 0, 0, contract.NewDataError("dataset has no rows to train on")
	}
	testRows := int(testFraction * float64(n))
	if testRows < 1 {
		testRows = 1
	}
	trainRows := n - testRows
	if trainRows < 2 {
		return 0, 0, &contract.StageError{
			Kind: contract.TrainingErrorKind,
			Err: fmt.Errorf("%d rows leave only %d training rows after a %.0f%% holdout",
				n, trainRows, testFraction*100),
		}
	}
	return trainRows, testRows, nil
}
