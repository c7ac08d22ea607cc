package ml

import (
	"math"
	"sort"
)

// Node is one node of a regression tree. Exported fields keep the tree
// JSON-serializable for the artifact store.
type Node struct {
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
}

// treeParams bound the growth of a single regression tree.
type treeParams struct {
	maxDepth     int
	minSplitGain float64
	minLeafSize  int
}

// fitTree grows a regression tree on (X, target) by variance reduction.
// Splits below minSplitGain are rejected, which is the min-split-gain
// regularizer of the hyperparameter grid.
func fitTree(X [][]float64, target []float64, idx []int, p treeParams, depth int) *Node {
	mean := meanAt(target, idx)
	if depth >= p.maxDepth || len(idx) < 2*p.minLeafSize {
		return &Node{Leaf: true, Value: mean}
	}

	bestGain := p.minSplitGain
	bestFeature := -1
	bestThreshold := 0.0
	baseSSE := sseAt(target, idx, mean)

	nFeatures := len(X[idx[0]])
	for f := 0; f < nFeatures; f++ {
		thresholds := candidateThresholds(X, idx, f)
		for _, th := range thresholds {
			var lSum, rSum float64
			var lN, rN int
			for _, i := range idx {
				if X[i][f] <= th {
					lSum += target[i]
					lN++
				} else {
					rSum += target[i]
					rN++
				}
			}
			if lN < p.minLeafSize || rN < p.minLeafSize {
				continue
			}
			lMean := lSum / float64(lN)
			rMean := rSum / float64(rN)
			var childSSE float64
			for _, i := range idx {
				var d float64
				if X[i][f] <= th {
					d = target[i] - lMean
				} else {
					d = target[i] - rMean
				}
				childSSE += d * d
			}
			gain := baseSSE - childSSE
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = th
			}
		}
	}

	if bestFeature < 0 {
		return &Node{Leaf: true, Value: mean}
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][bestFeature] <= bestThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &Node{
		Feature:   bestFeature,
		Threshold: bestThreshold,
		Left:      fitTree(X, target, left, p, depth+1),
		Right:     fitTree(X, target, right, p, depth+1),
	}
}

// Predict walks the tree for one sample.
func (n *Node) Predict(x []float64) float64 {
	for !n.Leaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

// candidateThresholds picks up to 16 quantile midpoints per feature to keep
// split search bounded on large training sets.
func candidateThresholds(X [][]float64, idx []int, f int) []float64 {
	vals := make([]float64, 0, len(idx))
	for _, i := range idx {
		vals = append(vals, X[i][f])
	}
	sort.Float64s(vals)

	const maxCandidates = 16
	out := make([]float64, 0, maxCandidates)
	step := len(vals) / (maxCandidates + 1)
	if step < 1 {
		step = 1
	}
	var last float64 = math.Inf(-1)
	for i := step; i < len(vals); i += step {
		th := (vals[i-1] + vals[i]) / 2
		if th > last && vals[i-1] != vals[i] {
			out = append(out, th)
			last = th
		}
	}
	return out
}

func meanAt(target []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += target[i]
	}
	return sum / float64(len(idx))
}

func sseAt(target []float64, idx []int, mean float64) float64 {
	var sse float64
	for _, i := range idx {
		d := target[i] - mean
		sse += d * d
	}
	return sse
}
