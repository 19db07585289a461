package core

import "github.com/gridscope/gridscope/schema"

// SelectBestModel picks the winning algorithm: lowest test MAE, with a
// higher test R² breaking ties. Returns "" for an empty result set.
// Candidates are visited in sorted name order so the choice is stable.
func SelectBestModel(results map[string]schema.ModelResult) string {
	best := ""
	for _, name := range schema.SortedModelNames(results) {
		if best == "" || betterThan(results[name], results[best]) {
			best = name
		}
	}
	return best
}

// betterThan reports whether candidate beats incumbent under the
// test-MAE-then-test-R² ordering.
func betterThan(candidate, incumbent schema.ModelResult) bool {
	if candidate.Test.MAE != incumbent.Test.MAE {
		return candidate.Test.MAE < incumbent.Test.MAE
	}
	return candidate.Test.R2 > incumbent.Test.R2
}
