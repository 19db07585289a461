package model

import "gonum.org/v1/gonum/stat"

// Fold is one expanding-window split: train on [0, TrainEnd), validate
// on [TrainEnd, ValEnd). Row order is chronological, so no fold ever
// validates on data older than its training window.
type Fold struct {
	TrainEnd int
	ValEnd   int
}

// TimeSeriesFolds divides n chronological rows into numFolds expanding
// windows. Fold i trains on the first i+1 chunks and validates on the
// next one. Returns nil when n is too small to give every fold at least
// one training and one validation row.
func TimeSeriesFolds(n, numFolds int) []Fold {
	if numFolds < 1 || n < numFolds+1 {
		return nil
	}
	chunk := n / (numFolds + 1)
	if chunk < 1 {
		return nil
	}
	folds := make([]Fold, 0, numFolds)
	for i := 1; i <= numFolds; i++ {
		trainEnd := i * chunk
		valEnd := (i + 1) * chunk
		if i == numFolds {
			valEnd = n
		}
		folds = append(folds, Fold{TrainEnd: trainEnd, ValEnd: valEnd})
	}
	return folds
}

// crossValidate scores a factory across expanding-window folds and
// returns the mean and standard deviation of the fold MAEs. Rows that
// are too few for the requested folds yield (0, 0, false).
func crossValidate(factory Factory, seed int64, x [][]float64, y []float64, numFolds int) (float64, float64, bool) {
	folds := TimeSeriesFolds(len(x), numFolds)
	if folds == nil {
		return 0, 0, false
	}
	scores := make([]float64, 0, len(folds))
	for _, fold := range folds {
		m := factory(seed)
		if err := m.Fit(x[:fold.TrainEnd], y[:fold.TrainEnd]); err != nil {
			continue
		}
		predicted := PredictAll(m, x[fold.TrainEnd:fold.ValEnd])
		scores = append(scores, MAE(predicted, y[fold.TrainEnd:fold.ValEnd]))
	}
	if len(scores) == 0 {
		return 0, 0, false
	}
	mean := stat.Mean(scores, nil)
	std := 0.0
	if len(scores) > 1 {
		std = stat.StdDev(scores, nil)
	}
	return mean, std, true
}
