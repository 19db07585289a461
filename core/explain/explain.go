// Package explain ranks feature contributions for the selected model.
package explain

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/gridscope/gridscope/core/feature"
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
)

// Attribution method names as they appear in reports.
const (
	MethodTreeGain    = "tree_gain"
	MethodPermutation = "permutation"
	MethodUniform     = "uniform"
)

// Predictor is the slice of a fitted model the explainer needs.
// *model.Trainer models satisfy it.
type Predictor interface {
	Predict(row []float64) float64
	Importances() []float64
}

// Explainer attributes the selected model's behavior to features. It
// prefers the model's intrinsic gain importances, falls back to
// permutation importance when those are missing, and degrades to a
// uniform attribution when no model survived training at all. The
// explanation stage never fails the pipeline on a missing model.
type Explainer struct {
	cfg *contract.Config
}

// NewExplainer builds an explainer from the validated config.
func NewExplainer(cfg *contract.Config) *Explainer {
	return &Explainer{cfg: cfg}
}

// Explain produces a ranked attribution for the dataset's features.
// The scaler must be the one the model was trained with; a nil scaler
// fits a fresh one over the sample.
func (e *Explainer) Explain(ctx context.Context, ds *schema.Dataset, m Predictor, scaler *feature.StandardScaler) (*schema.FeatureAttribution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	numFeatures := ds.NumFeatures()
	if numFeatures == 0 {
		return nil, contract.NewExplainError("dataset has no features to attribute")
	}

	method, weights := e.attribute(ds, m, scaler)
	ranked := make([]schema.AttributionEntry, numFeatures)
	for i, name := range ds.FeatureNames {
		ranked[i] = schema.AttributionEntry{Feature: name, Importance: weights[i]}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Importance > ranked[b].Importance
	})

	return &schema.FeatureAttribution{
		Method:  method,
		Entries: ranked,
		Summary: summarize(method, ranked),
	}, nil
}

// attribute picks the strongest applicable method and returns
// normalized per-feature weights.
func (e *Explainer) attribute(ds *schema.Dataset, m Predictor, scaler *feature.StandardScaler) (string, []float64) {
	numFeatures := ds.NumFeatures()
	if m != nil {
		if imp := m.Importances(); len(imp) == numFeatures {
			return MethodTreeGain, imp
		}
		if weights := e.permute(ds, m, scaler); weights != nil {
			return MethodPermutation, weights
		}
	}
	uniform := make([]float64, numFeatures)
	for i := range uniform {
		uniform[i] = 1 / float64(numFeatures)
	}
	return MethodUniform, uniform
}

// permute measures how much shuffling each feature column degrades the
// model's error on a bounded sample. Returns nil when the sample is too
// small to say anything.
func (e *Explainer) permute(ds *schema.Dataset, m Predictor, scaler *feature.StandardScaler) []float64 {
	n := ds.NumRows()
	if n < 2 {
		return nil
	}
	if n > e.cfg.SampleSize {
		n = e.cfg.SampleSize
	}
	if scaler == nil {
		scaler = feature.NewStandardScaler(ds.X[:n])
	}
	sample := scaler.Transform(ds.X[:n])
	y := ds.Y[:n]

	baseline := meanAbsError(m, sample, y)
	rng := rand.New(rand.NewSource(e.cfg.Seed))
	shuffled := make([][]float64, n)
	column := make([]float64, n)

	weights := make([]float64, ds.NumFeatures())
	total := 0.0
	for j := range weights {
		for i, row := range sample {
			column[i] = row[j]
		}
		rng.Shuffle(n, func(a, b int) { column[a], column[b] = column[b], column[a] })
		for i, row := range sample {
			mutated := append([]float64(nil), row...)
			mutated[j] = column[i]
			shuffled[i] = mutated
		}
		degradation := meanAbsError(m, shuffled, y) - baseline
		if degradation > 0 {
			weights[j] = degradation
			total += degradation
		}
	}
	if total == 0 {
		return nil
	}
	for j := range weights {
		weights[j] /= total
	}
	return weights
}

// summarize emits the report lines: the method plus the top features.
func summarize(method string, ranked []schema.AttributionEntry) []string {
	out := []string{fmt.Sprintf("attribution method: %s", method)}
	top := ranked
	if len(top) > 3 {
		top = top[:3]
	}
	for _, entry := range top {
		out = append(out, fmt.Sprintf("%s drives %.1f%% of the attribution",
			entry.Feature, 100*entry.Importance))
	}
	return out
}

func meanAbsError(m Predictor, x [][]float64, y []float64) float64 {
	sum := 0.0
	for i, row := range x {
		sum += math.Abs(m.Predict(row) - y[i])
	}
	return sum / float64(len(y))
}
