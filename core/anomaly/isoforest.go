// Package anomaly flags unusual observations with an isolation forest.
package anomaly

import (
	"math"
	"math/rand"
)

const (
	// numTrees is the ensemble size.
	numTrees = 100
	// subsampleSize caps how many rows each tree isolates.
	subsampleSize = 256
)

// isoNode is one node of an isolation tree. Leaves carry Feature == -1
// and the number of rows that reached them.
type isoNode struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Size      int
}

type isoTree struct {
	nodes []isoNode
}

// buildIsoTree isolates the sampled rows with uniformly random splits
// up to the standard height limit of ceil(log2(sample size)).
func buildIsoTree(x [][]float64, idx []int, rng *rand.Rand) *isoTree {
	t := &isoTree{}
	limit := int(math.Ceil(math.Log2(float64(len(idx)))))
	if limit < 1 {
		limit = 1
	}
	t.grow(x, idx, 0, limit, rng)
	return t
}

func (t *isoTree) grow(x [][]float64, idx []int, depth, limit int, rng *rand.Rand) int {
	pos := len(t.nodes)
	t.nodes = append(t.nodes, isoNode{Feature: -1, Left: -1, Right: -1, Size: len(idx)})
	if depth >= limit || len(idx) <= 1 {
		return pos
	}

	feature, threshold, ok := randomSplit(x, idx, rng)
	if !ok {
		return pos
	}
	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if x[i][feature] < threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	leftPos := t.grow(x, left, depth+1, limit, rng)
	rightPos := t.grow(x, right, depth+1, limit, rng)
	t.nodes[pos].Feature = feature
	t.nodes[pos].Threshold = threshold
	t.nodes[pos].Left = leftPos
	t.nodes[pos].Right = rightPos
	return pos
}

// randomSplit draws a feature with spread and a threshold inside its
// range. Returns false when every feature is constant over idx.
func randomSplit(x [][]float64, idx []int, rng *rand.Rand) (int, float64, bool) {
	numFeatures := len(x[idx[0]])
	order := rng.Perm(numFeatures)
	for _, feature := range order {
		lo, hi := x[idx[0]][feature], x[idx[0]][feature]
		for _, i := range idx[1:] {
			v := x[i][feature]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if hi > lo {
			return feature, lo + rng.Float64()*(hi-lo), true
		}
	}
	return 0, 0, false
}

// pathLength walks a row down the tree. Rows stopping at a non-singleton
// leaf get the average-path adjustment for the unexplored subtree.
func (t *isoTree) pathLength(row []float64) float64 {
	pos := 0
	depth := 0.0
	for {
		node := t.nodes[pos]
		if node.Feature < 0 {
			return depth + averagePath(node.Size)
		}
		depth++
		if row[node.Feature] < node.Threshold {
			pos = node.Left
		} else {
			pos = node.Right
		}
	}
}

// averagePath is c(n), the expected path length of an unsuccessful
// binary search tree lookup over n rows.
func averagePath(n int) float64 {
	if n <= 1 {
		return 0
	}
	const eulerMascheroni = 0.5772156649
	h := math.Log(float64(n-1)) + eulerMascheroni
	return 2*h - 2*float64(n-1)/float64(n)
}

// isoForest is the fitted ensemble.
type isoForest struct {
	trees  []*isoTree
	sample int
}

// fitIsoForest grows the ensemble over seeded subsamples.
func fitIsoForest(x [][]float64, seed int64) *isoForest {
	rng := rand.New(rand.NewSource(seed))
	sample := subsampleSize
	if sample > len(x) {
		sample = len(x)
	}
	f := &isoForest{sample: sample}
	for range numTrees {
		idx := rng.Perm(len(x))[:sample]
		f.trees = append(f.trees, buildIsoTree(x, idx, rng))
	}
	return f
}

// score returns the anomaly score for one row, negated so that lower
// means more anomalous. The magnitude is the standard isolation score
// 2^(-E[h]/c(sample)).
func (f *isoForest) score(row []float64) float64 {
	total := 0.0
	for _, tree := range f.trees {
		total += tree.pathLength(row)
	}
	mean := total / float64(len(f.trees))
	c := averagePath(f.sample)
	if c == 0 {
		return -1
	}
	return -math.Exp2(-mean / c)
}
