package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeBlobs builds a cleanly separable 2D training set with one cluster per
// class.
func threeBlobs() ([][]float64, []int) {
	centers := [NumClasses][2]float64{{0, 0}, {10, 0}, {0, 10}}
	offsets := [][2]float64{{0, 0}, {0.3, 0.1}, {-0.2, 0.4}, {0.1, -0.3}, {-0.4, -0.1}, {0.2, 0.2}}

	var X [][]float64
	var y []int
	for k, c := range centers {
		for _, o := range offsets {
			X = append(X, []float64{c[0] + o[0], c[1] + o[1]})
			y = append(y, k)
		}
	}
	return X, y
}

func testParams() Params {
	return Params{MaxDepth: 3, LearningRate: 0.5, NEstimators: 20, MinSplitGain: 0}
}

func TestFitSeparatesClasses(t *testing.T) {
	X, y := threeBlobs()
	model, err := Fit(X, y, testParams())
	require.NoError(t, err)

	for i := range X {
		assert.Equal(t, y[i], model.Predict(X[i]), "sample %d misclassified", i)
	}
}

func TestPredictProbaSumsToOne(t *testing.T) {
	X, y := threeBlobs()
	model, err := Fit(X, y, testParams())
	require.NoError(t, err)

	for i := range X {
		p := model.PredictProba(X[i])
		require.Len(t, p, NumClasses)
		var sum float64
		for _, v := range p {
			assert.GreaterOrEqual(t, v, 0.0)
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestFitEmptyInput(t *testing.T) {
	_, err := Fit(nil, nil, testParams())
	assert.Error(t, err)

	_, err = Fit([][]float64{{1, 2}}, []int{0, 1}, testParams())
	assert.Error(t, err, "row/label length mismatch")
}

func TestMarshalRoundTrip(t *testing.T) {
	X, y := threeBlobs()
	model, err := Fit(X, y, testParams())
	require.NoError(t, err)

	raw, err := model.Marshal()
	require.NoError(t, err)

	restored, err := Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, model.Params, restored.Params)
	assert.Equal(t, model.Features, restored.Features)

	for i := range X {
		assert.Equal(t, model.Predict(X[i]), restored.Predict(X[i]), "sample %d", i)
	}
}

func TestUnmarshalGarbage(t *testing.T) {
	_, err := Unmarshal([]byte("{not json"))
	assert.Error(t, err)
}
