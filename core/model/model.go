package model

import (
	"hash/fnv"
)

// Model is one regression algorithm from the fixed registry. Fit must be
// called before Predict, Importances or Params.
type Model interface {
	Name() string
	Fit(x [][]float64, y []float64) error
	Predict(row []float64) float64
	// Importances returns normalized per-feature importance weights,
	// or nil when the algorithm cannot attribute anything.
	Importances() []float64
	// Params exports the fitted hyperparameters for artifact persistence.
	Params() map[string]any
}

// Factory builds a fresh unfitted model. Trainers call it once for the
// final fit and once per cross-validation fold.
type Factory func(seed int64) Model

// Algorithm names as they appear in results, reports and the run store.
const (
	NameRandomForest       = "random_forest"
	NameGradientBoost      = "gradient_boost"
	NameGradientBoostTuned = "gradient_boost_tuned"
	NameLinear             = "linear"
)

// Registry returns the fixed algorithm set. The map is rebuilt on every
// call so callers can mutate their copy freely in tests.
func Registry() map[string]Factory {
	return map[string]Factory{
		NameRandomForest:       func(seed int64) Model { return NewRandomForest(seed) },
		NameGradientBoost:      func(seed int64) Model { return NewGradientBoost(seed) },
		NameGradientBoostTuned: func(seed int64) Model { return NewGradientBoostTuned(seed) },
		NameLinear:             func(seed int64) Model { return NewLinear() },
	}
}

// deriveSeed mixes an algorithm name into the base seed so every model
// draws from its own deterministic stream regardless of fit order.
func deriveSeed(base int64, name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return base + int64(h.Sum64()&0x7fffffff)
}
