// Package model fits and evaluates the fixed registry of regression algorithms.
package model

import (
	"math"

	"github.com/gridscope/gridscope/schema"
	"gonum.org/v1/gonum/stat"
)

// MAE computes the mean absolute error between predictions and actuals.
func MAE(predicted, actual []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	sum := 0.0
	for i := range actual {
		sum += math.Abs(predicted[i] - actual[i])
	}
	return sum / float64(len(actual))
}

// R2 computes the coefficient of determination. A constant actual series
// yields 0 rather than a division blowup.
func R2(predicted, actual []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	mean := stat.Mean(actual, nil)
	ssTot := 0.0
	ssRes := 0.0
	for i := range actual {
		dTot := actual[i] - mean
		dRes := actual[i] - predicted[i]
		ssTot += dTot * dTot
		ssRes += dRes * dRes
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// Evaluate computes the metric pair for one split.
func Evaluate(m Model, x [][]float64, y []float64) schema.Metrics {
	predicted := PredictAll(m, x)
	return schema.Metrics{MAE: MAE(predicted, y), R2: R2(predicted, y)}
}

// PredictAll runs a fitted model over every row of X.
func PredictAll(m Model, x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = m.Predict(row)
	}
	return out
}
