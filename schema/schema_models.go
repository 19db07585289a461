package schema

import "time"

// Metrics holds the error metrics computed for one data split.
type Metrics struct {
	MAE float64 `json:"mae"` // Mean absolute error
	R2  float64 `json:"r2"`  // Coefficient of determination
}

// ModelResult captures the outcome of fitting one regression algorithm.
// It is created by the trainer and never mutated afterwards; fitted
// parameters stay inside the trainer's registry and are not part of this
// struct.
type ModelResult struct {
	Name        string    `json:"name"`       // Registry name, e.g. "random_forest"
	Train       Metrics   `json:"train"`      // Metrics on the chronological train split
	Test        Metrics   `json:"test"`       // Metrics on the held-out tail split
	CVScore     float64   `json:"cv_score"`   // Cross-validated MAE (time-series folds)
	CVStd       float64   `json:"cv_std"`     // Standard deviation across CV folds
	Fit         FitClass  `json:"fit"`        // Over/under-fitting classification
	Importances []float64 `json:"-"`          // Intrinsic per-feature importances (may be nil)
	TrainedAt   time.Time `json:"trained_at"` // When the fit completed
	TrainRows   int       `json:"train_rows"` // Rows used for fitting
	TestRows    int       `json:"test_rows"`  // Rows used for evaluation
}

// GapRatio returns the relative MAE degradation from train to test split.
// A zero train MAE yields a ratio of zero to avoid division blowups.
func (r *ModelResult) GapRatio() float64 {
	if r.Train.MAE == 0 {
		return 0
	}
	return (r.Test.MAE - r.Train.MAE) / r.Train.MAE
}

// FitClass classifies a trained model's generalization behavior.
type FitClass string

// All fit classifications supported.
const (
	Overfit  FitClass = "overfit"
	Underfit FitClass = "underfit"
	WellFit  FitClass = "well_fit"
)
