package model

import (
	"math"
	"math/rand"
	"sort"
)

// treeNode is one node of a fitted regression tree. Leaves carry
// Feature == -1 and a Value; internal nodes route on Threshold.
type treeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// treeOptions bound the greedy split search.
type treeOptions struct {
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	// MaxFeatures limits how many candidate features each split
	// considers; 0 means all of them.
	MaxFeatures int
}

// regressionTree is a CART regression tree grown by variance reduction.
type regressionTree struct {
	nodes []treeNode
	opts  treeOptions
	rng   *rand.Rand
	// gains accumulates the total squared-error reduction attributed
	// to each feature across all splits.
	gains []float64
}

func newRegressionTree(opts treeOptions, rng *rand.Rand) *regressionTree {
	return &regressionTree{opts: opts, rng: rng}
}

// fit grows the tree over the rows named by idx. The index slice lets
// ensembles pass bootstrap samples without copying the matrix.
func (t *regressionTree) fit(x [][]float64, y []float64, idx []int) {
	numFeatures := 0
	if len(x) > 0 {
		numFeatures = len(x[0])
	}
	t.gains = make([]float64, numFeatures)
	t.nodes = t.nodes[:0]
	t.grow(x, y, idx, 0)
}

// grow appends a subtree for idx and returns its root node index.
func (t *regressionTree) grow(x [][]float64, y []float64, idx []int, depth int) int {
	node := treeNode{Feature: -1, Left: -1, Right: -1, Value: meanAt(y, idx)}
	pos := len(t.nodes)
	t.nodes = append(t.nodes, node)

	if depth >= t.opts.MaxDepth || len(idx) < t.opts.MinSamplesSplit {
		return pos
	}
	feature, threshold, gain, ok := t.bestSplit(x, y, idx)
	if !ok {
		return pos
	}
	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < t.opts.MinSamplesLeaf || len(right) < t.opts.MinSamplesLeaf {
		return pos
	}
	t.gains[feature] += gain
	leftPos := t.grow(x, y, left, depth+1)
	rightPos := t.grow(x, y, right, depth+1)
	t.nodes[pos].Feature = feature
	t.nodes[pos].Threshold = threshold
	t.nodes[pos].Left = leftPos
	t.nodes[pos].Right = rightPos
	return pos
}

// bestSplit scans every candidate feature with a sorted prefix-sum pass
// and returns the split with the largest squared-error reduction.
func (t *regressionTree) bestSplit(x [][]float64, y []float64, idx []int) (int, float64, float64, bool) {
	numFeatures := len(x[idx[0]])
	features := t.candidateFeatures(numFeatures)

	parentSum, parentSq := 0.0, 0.0
	for _, i := range idx {
		parentSum += y[i]
		parentSq += y[i] * y[i]
	}
	n := float64(len(idx))
	parentSSE := parentSq - parentSum*parentSum/n

	bestGain := 0.0
	bestFeature, bestThreshold := -1, 0.0
	order := make([]int, len(idx))
	for _, feature := range features {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool {
			return x[order[a]][feature] < x[order[b]][feature]
		})
		leftSum, leftSq := 0.0, 0.0
		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			leftSum += y[i]
			leftSq += y[i] * y[i]
			cur, next := x[i][feature], x[order[k+1]][feature]
			if cur == next {
				continue
			}
			nl := float64(k + 1)
			nr := n - nl
			if int(nl) < t.opts.MinSamplesLeaf || int(nr) < t.opts.MinSamplesLeaf {
				continue
			}
			rightSum := parentSum - leftSum
			rightSq := parentSq - leftSq
			leftSSE := leftSq - leftSum*leftSum/nl
			rightSSE := rightSq - rightSum*rightSum/nr
			gain := parentSSE - leftSSE - rightSSE
			if gain > bestGain {
				bestGain = gain
				bestFeature = feature
				bestThreshold = (cur + next) / 2
			}
		}
	}
	if bestFeature < 0 || bestGain <= 1e-12 {
		return 0, 0, 0, false
	}
	return bestFeature, bestThreshold, bestGain, true
}

// candidateFeatures picks the feature subset for one split.
func (t *regressionTree) candidateFeatures(numFeatures int) []int {
	all := make([]int, numFeatures)
	for i := range all {
		all[i] = i
	}
	if t.opts.MaxFeatures <= 0 || t.opts.MaxFeatures >= numFeatures || t.rng == nil {
		return all
	}
	t.rng.Shuffle(numFeatures, func(a, b int) { all[a], all[b] = all[b], all[a] })
	picked := all[:t.opts.MaxFeatures]
	sort.Ints(picked)
	return picked
}

func (t *regressionTree) predict(row []float64) float64 {
	pos := 0
	for {
		node := t.nodes[pos]
		if node.Feature < 0 {
			return node.Value
		}
		if row[node.Feature] <= node.Threshold {
			pos = node.Left
		} else {
			pos = node.Right
		}
	}
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// normalizeImportances scales gains so they sum to one. A tree with no
// splits yields a nil slice so callers can fall back to uniform weights.
func normalizeImportances(gains []float64) []float64 {
	total := 0.0
	for _, g := range gains {
		total += g
	}
	if total <= 0 {
		return nil
	}
	out := make([]float64, len(gains))
	for i, g := range gains {
		out[i] = g / total
	}
	return out
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
