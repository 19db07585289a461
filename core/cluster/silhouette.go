package cluster

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// silhouetteSampleCap bounds the O(n²) silhouette computation; larger
// datasets are scored on a seeded sample.
const silhouetteSampleCap = 2000

// silhouetteScore computes the mean silhouette coefficient over the
// (possibly sampled) rows. Degenerate inputs (a single cluster, or
// fewer rows than clusters) score 0.
func silhouetteScore(x [][]float64, labels []int, k int, seed int64) float64 {
	if k < 2 || len(x) <= k {
		return 0
	}
	idx := allRows(len(x))
	if len(idx) > silhouetteSampleCap {
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		idx = idx[:silhouetteSampleCap]
	}

	total := 0.0
	scored := 0
	sums := make([]float64, k)
	counts := make([]int, k)
	for _, i := range idx {
		for c := range k {
			sums[c] = 0
			counts[c] = 0
		}
		for j, row := range x {
			if j == i {
				continue
			}
			c := labels[j]
			sums[c] += floats.Distance(x[i], row, 2)
			counts[c]++
		}
		own := labels[i]
		if counts[own] == 0 {
			// Singleton cluster: silhouette is defined as 0.
			scored++
			continue
		}
		a := sums[own] / float64(counts[own])
		b := 0.0
		haveNeighbor := false
		for c := range k {
			if c == own || counts[c] == 0 {
				continue
			}
			mean := sums[c] / float64(counts[c])
			if !haveNeighbor || mean < b {
				b = mean
				haveNeighbor = true
			}
		}
		if !haveNeighbor {
			scored++
			continue
		}
		if m := max(a, b); m > 0 {
			total += (b - a) / m
		}
		scored++
	}
	if scored == 0 {
		return 0
	}
	return total / float64(scored)
}

func allRows(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
