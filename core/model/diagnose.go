package model

import (
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
)

// Diagnose classifies one trained model from its split metrics. A
// relative MAE gap or an absolute R² gap beyond the thresholds marks it
// overfit. Otherwise a model that explains too little of the training
// variance is underfit, and everything else is well fit.
func Diagnose(result *schema.ModelResult, cfg *contract.Config) schema.FitClass {
	r2Gap := result.Train.R2 - result.Test.R2
	if result.GapRatio() > cfg.OverfitGapRatio || r2Gap > cfg.OverfitR2Gap {
		return schema.Overfit
	}
	if result.Train.R2 < cfg.UnderfitR2 {
		return schema.Underfit
	}
	return schema.WellFit
}

// DiagnoseAll classifies every result and returns fresh copies with the
// Fit field set. Input results are left untouched.
func DiagnoseAll(results map[string]schema.ModelResult, cfg *contract.Config) map[string]schema.ModelResult {
	out := make(map[string]schema.ModelResult, len(results))
	for name, result := range results {
		result.Fit = Diagnose(&result, cfg)
		out[name] = result
	}
	return out
}
