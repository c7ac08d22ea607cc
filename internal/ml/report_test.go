package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	yTrue := []int{0, 0, 1, 1, 2, 2}
	yPred := []int{0, 1, 1, 1, 2, 0}

	r := Evaluate(yTrue, yPred)

	assert.InDelta(t, 4.0/6.0, r.Accuracy, 1e-9)

	sell := r.Classes["SELL"]
	assert.Equal(t, 2, sell.Support)
	assert.InDelta(t, 0.5, sell.Precision, 1e-9)
	assert.InDelta(t, 0.5, sell.Recall, 1e-9)
	assert.InDelta(t, 0.5, sell.F1, 1e-9)

	hold := r.Classes["HOLD"]
	assert.Equal(t, 2, hold.Support)
	assert.InDelta(t, 2.0/3.0, hold.Precision, 1e-9)
	assert.InDelta(t, 1.0, hold.Recall, 1e-9)
	assert.InDelta(t, 0.8, hold.F1, 1e-9)

	buy := r.Classes["BUY"]
	assert.Equal(t, 2, buy.Support)
	assert.InDelta(t, 1.0, buy.Precision, 1e-9)
	assert.InDelta(t, 0.5, buy.Recall, 1e-9)
	assert.InDelta(t, 2.0/3.0, buy.F1, 1e-9)

	// support-weighted mean of {0.5, 0.8, 2/3}
	assert.InDelta(t, (0.5+0.8+2.0/3.0)/3.0, r.WeightedF1, 1e-9)
}

func TestEvaluatePerfect(t *testing.T) {
	y := []int{0, 1, 2, 0, 1, 2}
	r := Evaluate(y, y)
	assert.Equal(t, 1.0, r.Accuracy)
	assert.Equal(t, 1.0, r.WeightedF1)
	for _, name := range classNames {
		assert.Equal(t, 1.0, r.Classes[name].F1)
		assert.Equal(t, 2, r.Classes[name].Support)
	}
}

func TestWeightedF1IgnoresAbsentClass(t *testing.T) {
	// no BUY samples: only SELL and HOLD carry weight
	yTrue := []int{0, 0, 1, 1}
	yPred := []int{0, 0, 1, 1}
	assert.InDelta(t, 1.0, WeightedF1(yTrue, yPred), 1e-9)
}

func TestWeightedF1Empty(t *testing.T) {
	assert.Equal(t, 0.0, WeightedF1(nil, nil))
}

func TestReportString(t *testing.T) {
	r := Evaluate([]int{0, 1, 2}, []int{0, 1, 2})
	s := r.String()
	require.Contains(t, s, "SELL")
	require.Contains(t, s, "HOLD")
	require.Contains(t, s, "BUY")
	require.Contains(t, s, "accuracy=1.000")
}
