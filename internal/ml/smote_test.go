package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imbalancedSet() ([][]float64, []int) {
	var X [][]float64
	var y []int
	add := func(class, count int, base float64) {
		for i := 0; i < count; i++ {
			X = append(X, []float64{base + float64(i)*0.1, base - float64(i)*0.1})
			y = append(y, class)
		}
	}
	add(0, 10, 0)
	add(1, 4, 10)
	add(2, 6, 20)
	return X, y
}

func TestOversampleBalancesClasses(t *testing.T) {
	X, y := imbalancedSet()
	outX, outY := Oversample(X, y, 42)

	require.Len(t, outX, 30)
	require.Len(t, outY, 30)

	counts := map[int]int{}
	for _, c := range outY {
		counts[c]++
	}
	assert.Equal(t, map[int]int{0: 10, 1: 10, 2: 10}, counts)
}

func TestOversamplePreservesOriginals(t *testing.T) {
	X, y := imbalancedSet()
	outX, outY := Oversample(X, y, 42)

	for i := range X {
		assert.Equal(t, X[i], outX[i])
		assert.Equal(t, y[i], outY[i])
	}
}

func TestOversampleSyntheticsInterpolate(t *testing.T) {
	X, y := imbalancedSet()
	outX, outY := Oversample(X, y, 7)

	// minority class 1 lives in [10.0, 10.3] x [9.7, 10.0]; interpolation
	// between class members cannot leave that box
	for i := len(X); i < len(outX); i++ {
		if outY[i] != 1 {
			continue
		}
		assert.GreaterOrEqual(t, outX[i][0], 10.0)
		assert.LessOrEqual(t, outX[i][0], 10.3)
		assert.GreaterOrEqual(t, outX[i][1], 9.7)
		assert.LessOrEqual(t, outX[i][1], 10.0)
	}
}

func TestOversampleDeterministicPerSeed(t *testing.T) {
	X, y := imbalancedSet()
	aX, aY := Oversample(X, y, 99)
	bX, bY := Oversample(X, y, 99)
	assert.Equal(t, aX, bX)
	assert.Equal(t, aY, bY)
}

func TestOversampleSkipsSingletonClass(t *testing.T) {
	X := [][]float64{{0, 0}, {0.1, 0}, {0.2, 0}, {5, 5}}
	y := []int{0, 0, 0, 1}
	outX, outY := Oversample(X, y, 1)

	// class 1 has a single sample: nothing to interpolate with, left alone
	require.Len(t, outX, 4)
	assert.Equal(t, y, outY)
}
