package model

import (
	"errors"
	"math"
	"strconv"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/sajari/regression"
)

var errNoCoefficients = errors.New("linear: regression produced no coefficients")

// Linear is the ordinary-least-squares baseline. It exists so the
// tree ensembles always have a cheap sanity reference in the report.
type Linear struct {
	bias    float64
	weights []float64
}

var _ Model = &Linear{}

// NewLinear builds an unfitted least-squares model.
func NewLinear() *Linear {
	return &Linear{}
}

func (l *Linear) Name() string { return NameLinear }

func (l *Linear) Fit(x [][]float64, y []float64) error {
	var r regression.Regression
	r.SetObserved("load")
	if len(x) > 0 {
		for i := range x[0] {
			r.SetVar(i, "f"+strconv.Itoa(i))
		}
	}
	for i, row := range x {
		r.Train(regression.DataPoint(y[i], row))
	}
	if err := r.Run(); err != nil {
		return contract.NewTrainingError(NameLinear, err)
	}
	coeffs := r.GetCoeffs()
	if len(coeffs) == 0 {
		return contract.NewTrainingError(NameLinear, errNoCoefficients)
	}
	l.bias = sanitize(coeffs[0])
	l.weights = make([]float64, len(coeffs)-1)
	for i, c := range coeffs[1:] {
		l.weights[i] = sanitize(c)
	}
	return nil
}

func (l *Linear) Predict(row []float64) float64 {
	pred := l.bias
	for i, w := range l.weights {
		if i < len(row) {
			pred += w * row[i]
		}
	}
	return sanitize(pred)
}

// Importances weights each feature by coefficient magnitude. Inputs are
// standardized upstream, so magnitudes are comparable across features.
func (l *Linear) Importances() []float64 {
	abs := make([]float64, len(l.weights))
	for i, w := range l.weights {
		abs[i] = math.Abs(w)
	}
	return normalizeImportances(abs)
}

func (l *Linear) Params() map[string]any {
	return map[string]any{
		"bias":    l.bias,
		"weights": l.weights,
	}
}
