// Package cluster segments observations into consumption patterns.
package cluster

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const (
	// numInits is how many independent k-means restarts run; the one
	// with the lowest inertia wins.
	numInits = 10
	// maxIterations bounds a single Lloyd run.
	maxIterations = 300
	// convergenceTol stops a run once the inertia improvement between
	// iterations falls below this fraction.
	convergenceTol = 1e-4
)

// kmeansResult is one converged Lloyd run.
type kmeansResult struct {
	labels  []int
	centers [][]float64
	inertia float64
}

// runKMeans performs k-means with numInits seeded restarts and returns
// the best run by inertia. Rows must already be standardized.
func runKMeans(x [][]float64, k int, seed int64) kmeansResult {
	rng := rand.New(rand.NewSource(seed))
	best := kmeansResult{inertia: math.Inf(1)}
	for range numInits {
		result := lloyd(x, k, rng)
		if result.inertia < best.inertia {
			best = result
		}
	}
	return best
}

// lloyd runs a single k-means pass from a kmeans++ initialization.
func lloyd(x [][]float64, k int, rng *rand.Rand) kmeansResult {
	centers := seedCenters(x, k, rng)
	labels := make([]int, len(x))
	prevInertia := math.Inf(1)

	for range maxIterations {
		inertia := assign(x, centers, labels)
		recenter(x, centers, labels, rng)
		if prevInertia-inertia < convergenceTol*prevInertia {
			prevInertia = inertia
			break
		}
		prevInertia = inertia
	}
	// Final assignment against the settled centers.
	inertia := assign(x, centers, labels)
	return kmeansResult{labels: labels, centers: centers, inertia: inertia}
}

// seedCenters picks initial centroids with the kmeans++ scheme: each new
// center is drawn with probability proportional to its squared distance
// from the nearest existing center.
func seedCenters(x [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	first := append([]float64(nil), x[rng.Intn(len(x))]...)
	centers = append(centers, first)

	dist2 := make([]float64, len(x))
	for len(centers) < k {
		total := 0.0
		for i, row := range x {
			d := nearestDistance(row, centers)
			dist2[i] = d * d
			total += dist2[i]
		}
		if total == 0 {
			// All rows coincide with a center; duplicate one.
			centers = append(centers, append([]float64(nil), centers[0]...))
			continue
		}
		target := rng.Float64() * total
		cum := 0.0
		pick := len(x) - 1
		for i, d := range dist2 {
			cum += d
			if cum >= target {
				pick = i
				break
			}
		}
		centers = append(centers, append([]float64(nil), x[pick]...))
	}
	return centers
}

// assign labels every row with its nearest center and returns the inertia.
func assign(x [][]float64, centers [][]float64, labels []int) float64 {
	inertia := 0.0
	for i, row := range x {
		bestDist := math.Inf(1)
		for c, center := range centers {
			d := floats.Distance(row, center, 2)
			if d < bestDist {
				bestDist = d
				labels[i] = c
			}
		}
		inertia += bestDist * bestDist
	}
	return inertia
}

// recenter moves every center to the mean of its members. An empty
// cluster is reseeded onto a random row so k never collapses.
func recenter(x [][]float64, centers [][]float64, labels []int, rng *rand.Rand) {
	cols := len(x[0])
	counts := make([]int, len(centers))
	for c := range centers {
		for j := range cols {
			centers[c][j] = 0
		}
	}
	for i, row := range x {
		c := labels[i]
		counts[c]++
		floats.Add(centers[c], row)
	}
	for c := range centers {
		if counts[c] == 0 {
			copy(centers[c], x[rng.Intn(len(x))])
			continue
		}
		floats.Scale(1/float64(counts[c]), centers[c])
	}
}

func nearestDistance(row []float64, centers [][]float64) float64 {
	best := math.Inf(1)
	for _, center := range centers {
		if d := floats.Distance(row, center, 2); d < best {
			best = d
		}
	}
	return best
}
