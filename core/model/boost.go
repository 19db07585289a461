package model

import (
	"fmt"
	"math/rand"

	"github.com/gridscope/gridscope/internal/contract"
)

// GradientBoost fits shallow regression trees sequentially on the
// residuals of the running prediction, shrunk by a learning rate.
type GradientBoost struct {
	name      string
	numTrees  int
	learnRate float64
	subsample float64
	treeOpts  treeOptions
	seed      int64

	base        float64
	trees       []*regressionTree
	importances []float64
}

var _ Model = &GradientBoost{}

// NewGradientBoost builds the boosting model with default settings.
func NewGradientBoost(seed int64) *GradientBoost {
	return &GradientBoost{
		name:      NameGradientBoost,
		numTrees:  100,
		learnRate: 0.1,
		subsample: 1.0,
		treeOpts: treeOptions{
			MaxDepth:        5,
			MinSamplesSplit: 5,
			MinSamplesLeaf:  2,
		},
		seed: seed,
	}
}

// NewGradientBoostTuned builds the slower, more regularized variant:
// more trees, a smaller learning rate, deeper splits and row subsampling.
func NewGradientBoostTuned(seed int64) *GradientBoost {
	m := NewGradientBoost(seed)
	m.name = NameGradientBoostTuned
	m.numTrees = 200
	m.learnRate = 0.05
	m.subsample = 0.8
	m.treeOpts.MaxDepth = 7
	return m
}

func (g *GradientBoost) Name() string { return g.name }

func (g *GradientBoost) Fit(x [][]float64, y []float64) error {
	if len(x) < g.treeOpts.MinSamplesSplit {
		return contract.NewTrainingError(g.name, fmt.Errorf("%d rows is below the minimum split size %d",
			len(x), g.treeOpts.MinSamplesSplit))
	}
	numFeatures := len(x[0])
	rng := rand.New(rand.NewSource(g.seed))

	g.base = meanAt(y, allIndices(len(y)))
	predictions := make([]float64, len(y))
	for i := range predictions {
		predictions[i] = g.base
	}
	residuals := make([]float64, len(y))

	g.trees = make([]*regressionTree, 0, g.numTrees)
	gains := make([]float64, numFeatures)
	for t := 0; t < g.numTrees; t++ {
		for i := range y {
			residuals[i] = y[i] - predictions[i]
		}
		idx := g.sampleRows(rng, len(x))
		tree := newRegressionTree(g.treeOpts, rand.New(rand.NewSource(rng.Int63())))
		tree.fit(x, residuals, idx)
		g.trees = append(g.trees, tree)
		for i, gain := range tree.gains {
			gains[i] += gain
		}
		for i, row := range x {
			predictions[i] += g.learnRate * tree.predict(row)
		}
	}
	g.importances = normalizeImportances(gains)
	return nil
}

// sampleRows draws the per-iteration row subset without replacement.
func (g *GradientBoost) sampleRows(rng *rand.Rand, n int) []int {
	if g.subsample >= 1.0 {
		return allIndices(n)
	}
	k := int(g.subsample * float64(n))
	if k < g.treeOpts.MinSamplesSplit {
		k = n
	}
	perm := rng.Perm(n)
	return perm[:k]
}

func (g *GradientBoost) Predict(row []float64) float64 {
	pred := g.base
	for _, tree := range g.trees {
		pred += g.learnRate * tree.predict(row)
	}
	return sanitize(pred)
}

func (g *GradientBoost) Importances() []float64 { return g.importances }

func (g *GradientBoost) Params() map[string]any {
	return map[string]any{
		"n_estimators":      g.numTrees,
		"learning_rate":     g.learnRate,
		"subsample":         g.subsample,
		"max_depth":         g.treeOpts.MaxDepth,
		"min_samples_split": g.treeOpts.MinSamplesSplit,
		"min_samples_leaf":  g.treeOpts.MinSamplesLeaf,
		"seed":              g.seed,
	}
}
