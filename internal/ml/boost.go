package ml

import (
	"encoding/json"
	"fmt"
	"math"
)

// NumClasses is fixed: SELL, HOLD, BUY.
const NumClasses = 3

// Params is one hyperparameter combination for the gradient-boosted
// classifier. The grid mirrors the usual tree-booster knobs.
type Params struct {
	MaxDepth     int     `json:"max_depth"`
	LearningRate float64 `json:"learning_rate"`
	NEstimators  int     `json:"n_estimators"`
	MinSplitGain float64 `json:"min_split_gain"`
}

func (p Params) String() string {
	return fmt.Sprintf("depth=%d lr=%g trees=%d gain=%g",
		p.MaxDepth, p.LearningRate, p.NEstimators, p.MinSplitGain)
}

// Classifier is a multi-class gradient-boosted tree ensemble with a softmax
// objective: one tree per class per round, fitted to the class residuals.
// Exported fields keep the model JSON-serializable as an opaque artifact.
type Classifier struct {
	Params   Params    `json:"params"`
	Trees    [][]*Node `json:"trees"` // Trees[round][class]
	Features int       `json:"features"`
}

// Fit trains the ensemble on X with labels y in [0, NumClasses).
func Fit(X [][]float64, y []int, p Params) (*Classifier, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, fmt.Errorf("fit: bad training set (%d rows, %d labels)", len(X), len(y))
	}

	n := len(X)
	scores := make([][]float64, n) // scores[i][k]
	for i := range scores {
		scores[i] = make([]float64, NumClasses)
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	tp := treeParams{maxDepth: p.MaxDepth, minSplitGain: p.MinSplitGain, minLeafSize: 2}
	residual := make([]float64, n)
	c := &Classifier{Params: p, Features: len(X[0])}

	for round := 0; round < p.NEstimators; round++ {
		roundTrees := make([]*Node, NumClasses)
		for k := 0; k < NumClasses; k++ {
			for i := 0; i < n; i++ {
				pk := softmaxAt(scores[i], k)
				target := 0.0
				if y[i] == k {
					target = 1.0
				}
				residual[i] = target - pk
			}
			roundTrees[k] = fitTree(X, residual, idx, tp, 0)
		}
		// apply the whole round after fitting so the K trees of a round see
		// the same score state
		for k := 0; k < NumClasses; k++ {
			for i := 0; i < n; i++ {
				scores[i][k] += p.LearningRate * roundTrees[k].Predict(X[i])
			}
		}
		c.Trees = append(c.Trees, roundTrees)
	}
	return c, nil
}

// PredictProba returns class probabilities for one sample.
func (c *Classifier) PredictProba(x []float64) []float64 {
	scores := make([]float64, NumClasses)
	for _, round := range c.Trees {
		for k, tree := range round {
			scores[k] += c.Params.LearningRate * tree.Predict(x)
		}
	}
	return softmax(scores)
}

// Predict returns the argmax class for one sample.
func (c *Classifier) Predict(x []float64) int {
	p := c.PredictProba(x)
	best := 0
	for k := 1; k < NumClasses; k++ {
		if p[k] > p[best] {
			best = k
		}
	}
	return best
}

// Marshal encodes the model for the artifact store.
func (c *Classifier) Marshal() (json.RawMessage, error) {
	return json.Marshal(c)
}

// Unmarshal decodes a model from an artifact payload.
func Unmarshal(raw json.RawMessage) (*Classifier, error) {
	var c Classifier
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return &c, nil
}

func softmax(scores []float64) []float64 {
	maxS := scores[0]
	for _, s := range scores {
		if s > maxS {
			maxS = s
		}
	}
	out := make([]float64, len(scores))
	var sum float64
	for k, s := range scores {
		out[k] = math.Exp(s - maxS)
		sum += out[k]
	}
	for k := range out {
		out[k] /= sum
	}
	return out
}

func softmaxAt(scores []float64, k int) float64 {
	return softmax(scores)[k]
}
