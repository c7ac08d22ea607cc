package ml

import (
	"math"
	"math/rand"
	"sort"
)

// Oversample balances class counts by synthesizing minority-class samples:
// each synthetic point is a random interpolation between a minority sample
// and one of its k nearest same-class neighbors. Applied to the training
// split only; holdout data is never resampled.
func Oversample(X [][]float64, y []int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))

	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	maxCount := 0
	for _, idx := range byClass {
		if len(idx) > maxCount {
			maxCount = len(idx)
		}
	}

	outX := append([][]float64{}, X...)
	outY := append([]int{}, y...)

	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	const k = 5
	for _, c := range classes {
		idx := byClass[c]
		need := maxCount - len(idx)
		if need <= 0 || len(idx) < 2 {
			continue
		}
		for s := 0; s < need; s++ {
			i := idx[rng.Intn(len(idx))]
			j := nearestNeighbor(X, idx, i, k, rng)
			t := rng.Float64()
			synth := make([]float64, len(X[i]))
			for f := range synth {
				synth[f] = X[i][f] + t*(X[j][f]-X[i][f])
			}
			outX = append(outX, synth)
			outY = append(outY, c)
		}
	}
	return outX, outY
}

// nearestNeighbor picks a random neighbor of sample i among its k closest
// same-class samples.
func nearestNeighbor(X [][]float64, classIdx []int, i, k int, rng *rand.Rand) int {
	type cand struct {
		idx  int
		dist float64
	}
	cands := make([]cand, 0, len(classIdx)-1)
	for _, j := range classIdx {
		if j == i {
			continue
		}
		cands = append(cands, cand{idx: j, dist: euclidean(X[i], X[j])})
	}
	sort.Slice(cands, func(a, b int) bool {
		if cands[a].dist != cands[b].dist {
			return cands[a].dist < cands[b].dist
		}
		return cands[a].idx < cands[b].idx
	})
	if len(cands) > k {
		cands = cands[:k]
	}
	return cands[rng.Intn(len(cands))].idx
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for f := range a {
		d := a[f] - b[f]
		sum += d * d
	}
	return math.Sqrt(sum)
}
