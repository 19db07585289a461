package anomaly

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/gridscope/gridscope/core/feature"
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
)

// minRows is the smallest dataset an isolation forest can say anything
// useful about.
const minRows = 10

// Detector flags the most isolated observations in the engineered
// dataset. The flagged count is pinned to the configured contamination
// fraction rather than a score cutoff, so results stay comparable
// across runs.
type Detector struct {
	cfg *contract.Config
}

// NewDetector builds an anomaly detector from the validated config.
func NewDetector(cfg *contract.Config) *Detector {
	return &Detector{cfg: cfg}
}

// Detect standardizes the features, fits a seeded isolation forest and
// flags the round(contamination * rows) most anomalous observations.
func (d *Detector) Detect(ctx context.Context, ds *schema.Dataset) (*schema.AnomalyFlag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := ds.NumRows()
	if n < minRows {
		return nil, contract.NewAnomalyError(
			"%d rows is below the minimum of %d for anomaly detection", n, minRows)
	}

	scaled := feature.NewStandardScaler(ds.X).Transform(ds.X)
	forest := fitIsoForest(scaled, d.cfg.Seed)

	scores := make([]float64, n)
	for i, row := range scaled {
		scores[i] = forest.score(row)
	}

	numAnomalies := int(math.Round(d.cfg.Contamination * float64(n)))
	if numAnomalies < 1 {
		numAnomalies = 1
	}

	// Rank ascending: the lowest scores are the most anomalous. Ties
	// break on row order so reruns agree.
	order := allRows(n)
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] < scores[order[b]]
	})
	flags := make([]bool, n)
	for _, i := range order[:numAnomalies] {
		flags[i] = true
	}

	return &schema.AnomalyFlag{
		IsAnomaly:    flags,
		Scores:       scores,
		NumAnomalies: numAnomalies,
		AnomalyRate:  float64(numAnomalies) / float64(n),
		Summary:      d.summarize(ds, order[:numAnomalies]),
	}, nil
}

// summarize produces the report lines: the overall rate plus the three
// most anomalous observations with their timestamps and targets.
func (d *Detector) summarize(ds *schema.Dataset, flagged []int) []string {
	out := []string{
		fmt.Sprintf("flagged %d of %d rows (%.1f%%)",
			len(flagged), ds.NumRows(), 100*float64(len(flagged))/float64(ds.NumRows())),
	}
	top := flagged
	if len(top) > 3 {
		top = top[:3]
	}
	for _, i := range top {
		line := fmt.Sprintf("%s %.*f", d.cfg.TargetColumn, d.cfg.Precision, ds.Y[i])
		if i < len(ds.Timestamps) {
			line = ds.Timestamps[i].Format(contract.DateTimeFormat) + ": " + line
		}
		if i < len(ds.Groups) && ds.Groups[i] != "" {
			line += " (" + ds.Groups[i] + ")"
		}
		out = append(out, line)
	}
	return out
}

func allRows(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
