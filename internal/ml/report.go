package ml

import (
	"fmt"
	"strings"
)

// ClassMetrics holds precision/recall/F1 for one class.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report is the holdout evaluation attached to a trained artifact.
type Report struct {
	Classes    map[string]ClassMetrics `json:"classes"`
	Accuracy   float64                 `json:"accuracy"`
	WeightedF1 float64                 `json:"weighted_f1"`
	BestParams Params                  `json:"best_params"`
}

var classNames = [NumClasses]string{"SELL", "HOLD", "BUY"}

// Evaluate computes per-class precision/recall/F1 and overall accuracy.
func Evaluate(yTrue, yPred []int) *Report {
	r := &Report{Classes: make(map[string]ClassMetrics, NumClasses)}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	if len(yTrue) > 0 {
		r.Accuracy = float64(correct) / float64(len(yTrue))
	}
	for k := 0; k < NumClasses; k++ {
		var tp, fp, fn, support int
		for i := range yTrue {
			if yTrue[i] == k {
				support++
				if yPred[i] == k {
					tp++
				} else {
					fn++
				}
			} else if yPred[i] == k {
				fp++
			}
		}
		m := ClassMetrics{Support: support}
		if tp+fp > 0 {
			m.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			m.Recall = float64(tp) / float64(tp+fn)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		r.Classes[classNames[k]] = m
	}
	r.WeightedF1 = WeightedF1(yTrue, yPred)
	return r
}

// WeightedF1 is the support-weighted mean of per-class F1 scores, the grid
// search objective.
func WeightedF1(yTrue, yPred []int) float64 {
	var total, weighted float64
	for k := 0; k < NumClasses; k++ {
		var tp, fp, fn, support int
		for i := range yTrue {
			if yTrue[i] == k {
				support++
				if yPred[i] == k {
					tp++
				} else {
					fn++
				}
			} else if yPred[i] == k {
				fp++
			}
		}
		if support == 0 {
			continue
		}
		var precision, recall, f1 float64
		if tp+fp > 0 {
			precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			recall = float64(tp) / float64(tp+fn)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		weighted += f1 * float64(support)
		total += float64(support)
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// String renders the report in a classification-report layout.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %9s %9s %9s %9s\n", "", "precision", "recall", "f1", "support")
	for _, name := range classNames {
		m := r.Classes[name]
		fmt.Fprintf(&b, "%-6s %9.2f %9.2f %9.2f %9d\n", name, m.Precision, m.Recall, m.F1, m.Support)
	}
	fmt.Fprintf(&b, "accuracy=%.3f weighted_f1=%.3f", r.Accuracy, r.WeightedF1)
	return b.String()
}
