package feature

import "math"

// StandardScaler centers features to zero mean and unit variance.
// Distance-based stages (clustering, anomaly scoring) require scaled input;
// unscaled heterogeneous-unit features would bias the result.
type StandardScaler struct {
	Means []float64
	Stds  []float64
}

// NewStandardScaler fits a scaler to the rows of X.
func NewStandardScaler(x [][]float64) *StandardScaler {
	s := &StandardScaler{}
	s.Fit(x)
	return s
}

// Fit computes per-column means and standard deviations.
// Zero-variance columns get a unit deviation so Transform stays finite.
func (s *StandardScaler) Fit(x [][]float64) {
	if len(x) == 0 {
		s.Means = nil
		s.Stds = nil
		return
	}
	cols := len(x[0])
	s.Means = make([]float64, cols)
	s.Stds = make([]float64, cols)

	n := float64(len(x))
	for _, row := range x {
		for j, v := range row {
			s.Means[j] += v
		}
	}
	for j := range s.Means {
		s.Means[j] /= n
	}
	for _, row := range x {
		for j, v := range row {
			d := v - s.Means[j]
			s.Stds[j] += d * d
		}
	}
	for j := range s.Stds {
		s.Stds[j] = math.Sqrt(s.Stds[j] / n)
		if s.Stds[j] == 0 {
			s.Stds[j] = 1
		}
	}
}

// Transform returns a scaled copy of X. The input is never mutated.
func (s *StandardScaler) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Means[j]) / s.Stds[j]
		}
		out[i] = scaled
	}
	return out
}

// FitTransform fits the scaler and returns the scaled matrix.
func (s *StandardScaler) FitTransform(x [][]float64) [][]float64 {
	s.Fit(x)
	return s.Transform(x)
}

// TransformRow scales a single feature vector.
func (s *StandardScaler) TransformRow(row []float64) []float64 {
	scaled := make([]float64, len(row))
	for j, v := range row {
		scaled[j] = (v - s.Means[j]) / s.Stds[j]
	}
	return scaled
}
