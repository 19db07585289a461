package model

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/gridscope/gridscope/internal/contract"
)

// RandomForest is a bagged ensemble of regression trees. Each tree sees
// a bootstrap sample of the rows and a random feature subset per split.
type RandomForest struct {
	numTrees int
	treeOpts treeOptions
	seed     int64

	trees       []*regressionTree
	importances []float64
}

var _ Model = &RandomForest{}

// NewRandomForest builds an unfitted forest with the default settings.
func NewRandomForest(seed int64) *RandomForest {
	return &RandomForest{
		numTrees: 100,
		treeOpts: treeOptions{
			MaxDepth:        10,
			MinSamplesSplit: 5,
			MinSamplesLeaf:  2,
		},
		seed: seed,
	}
}

func (f *RandomForest) Name() string { return NameRandomForest }

func (f *RandomForest) Fit(x [][]float64, y []float64) error {
	if len(x) < f.treeOpts.MinSamplesSplit {
		return contract.NewTrainingError(f.Name(), fmt.Errorf("%d rows is below the minimum split size %d",
			len(x), f.treeOpts.MinSamplesSplit))
	}
	numFeatures := len(x[0])
	opts := f.treeOpts
	opts.MaxFeatures = maxFeaturesSqrt(numFeatures)

	rng := rand.New(rand.NewSource(f.seed))
	f.trees = make([]*regressionTree, 0, f.numTrees)
	gains := make([]float64, numFeatures)
	for t := 0; t < f.numTrees; t++ {
		idx := bootstrapSample(rng, len(x))
		tree := newRegressionTree(opts, rand.New(rand.NewSource(rng.Int63())))
		tree.fit(x, y, idx)
		f.trees = append(f.trees, tree)
		for i, g := range tree.gains {
			gains[i] += g
		}
	}
	f.importances = normalizeImportances(gains)
	return nil
}

func (f *RandomForest) Predict(row []float64) float64 {
	sum := 0.0
	for _, tree := range f.trees {
		sum += tree.predict(row)
	}
	return sanitize(sum / float64(len(f.trees)))
}

func (f *RandomForest) Importances() []float64 { return f.importances }

func (f *RandomForest) Params() map[string]any {
	return map[string]any{
		"n_estimators":      f.numTrees,
		"max_depth":         f.treeOpts.MaxDepth,
		"min_samples_split": f.treeOpts.MinSamplesSplit,
		"min_samples_leaf":  f.treeOpts.MinSamplesLeaf,
		"seed":              f.seed,
	}
}

// Trees exposes the fitted ensemble size, mostly for tests.
func (f *RandomForest) Trees() int { return len(f.trees) }

func bootstrapSample(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.Intn(n)
	}
	return idx
}

func maxFeaturesSqrt(numFeatures int) int {
	m := int(math.Sqrt(float64(numFeatures)))
	if m < 1 {
		return 1
	}
	return m
}
