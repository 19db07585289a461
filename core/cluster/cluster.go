package cluster

import (
	"context"
	"fmt"
	"sort"

	"github.com/gridscope/gridscope/core/feature"
	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
	"gonum.org/v1/gonum/stat"
)

// Analyzer segments the engineered dataset into consumption patterns
// with seeded k-means and scores the result with a silhouette
// coefficient.
type Analyzer struct {
	cfg *contract.Config
}

// NewAnalyzer builds a cluster analyzer from the validated config.
func NewAnalyzer(cfg *contract.Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Cluster standardizes the feature matrix, runs restarted k-means and
// packages labels, sizes, inertia and per-cluster characteristics.
func (a *Analyzer) Cluster(ctx context.Context, ds *schema.Dataset) (*schema.ClusterAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := ds.NumRows()
	k := a.cfg.Clusters
	if n == 0 {
		return nil, contract.NewClusteringError("no rows to cluster")
	}
	if k > n {
		return nil, contract.NewClusteringError(
			"%d clusters requested but only %d rows available", k, n)
	}

	scaled := feature.NewStandardScaler(ds.X).Transform(ds.X)
	result := runKMeans(scaled, k, a.cfg.Seed)

	sizes := make([]int, k)
	for _, label := range result.labels {
		sizes[label]++
	}
	return &schema.ClusterAssignment{
		ClusterCount:    k,
		Labels:          result.labels,
		SilhouetteScore: silhouetteScore(scaled, result.labels, k, a.cfg.Seed),
		Inertia:         result.inertia,
		ClusterSizes:    sizes,
		Characteristics: a.characterize(ds, result.labels, sizes),
		Centers:         result.centers,
	}, nil
}

// characterize summarizes each cluster from the raw target series:
// share of rows, mean target and the most common hour of day.
func (a *Analyzer) characterize(ds *schema.Dataset, labels []int, sizes []int) []string {
	k := len(sizes)
	targets := make([][]float64, k)
	hours := make([]map[int]int, k)
	for c := range k {
		hours[c] = make(map[int]int)
	}
	for i, label := range labels {
		targets[label] = append(targets[label], ds.Y[i])
		if i < len(ds.Timestamps) {
			hours[label][ds.Timestamps[i].Hour()]++
		}
	}

	n := float64(len(labels))
	out := make([]string, 0, k)
	for c := range k {
		if sizes[c] == 0 {
			out = append(out, fmt.Sprintf("cluster %d: empty", c))
			continue
		}
		desc := fmt.Sprintf("cluster %d: %d rows (%.1f%%), avg %s %.*f",
			c, sizes[c], 100*float64(sizes[c])/n,
			a.cfg.TargetColumn, a.cfg.Precision, stat.Mean(targets[c], nil))
		if hour, ok := modalHour(hours[c]); ok {
			desc += fmt.Sprintf(", typical hour %02d:00", hour)
		}
		out = append(out, desc)
	}
	return out
}

// modalHour returns the most frequent hour, preferring the earliest on
// ties so the output stays deterministic.
func modalHour(counts map[int]int) (int, bool) {
	if len(counts) == 0 {
		return 0, false
	}
	hours := make([]int, 0, len(counts))
	for h := range counts {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	best, bestCount := hours[0], counts[hours[0]]
	for _, h := range hours[1:] {
		if counts[h] > bestCount {
			best, bestCount = h, counts[h]
		}
	}
	return best, true
}
