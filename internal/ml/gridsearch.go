package ml

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// Grid returns the bounded hyperparameter space: 16 combinations.
func Grid() []Params {
	var out []Params
	for _, depth := range []int{3, 5} {
		for _, lr := range []float64{0.01, 0.1} {
			for _, trees := range []int{100, 200} {
				for _, gain := range []float64{0.1, 0.2} {
					out = append(out, Params{
						MaxDepth:     depth,
						LearningRate: lr,
						NEstimators:  trees,
						MinSplitGain: gain,
					})
				}
			}
		}
	}
	return out
}

// crossValidate scores one parameter combination with k contiguous folds,
// returning the mean weighted F1 across folds.
func crossValidate(ctx context.Context, X [][]float64, y []int, p Params, k int) (float64, error) {
	n := len(X)
	if k < 2 || n < k {
		return 0, fmt.Errorf("cross-validate: %d rows for %d folds", n, k)
	}

	var total float64
	foldSize := n / k
	for fold := 0; fold < k; fold++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		lo := fold * foldSize
		hi := lo + foldSize
		if fold == k-1 {
			hi = n
		}

		trainX := make([][]float64, 0, n-(hi-lo))
		trainY := make([]int, 0, n-(hi-lo))
		trainX = append(trainX, X[:lo]...)
		trainX = append(trainX, X[hi:]...)
		trainY = append(trainY, y[:lo]...)
		trainY = append(trainY, y[hi:]...)

		model, err := Fit(trainX, trainY, p)
		if err != nil {
			return 0, err
		}
		pred := make([]int, hi-lo)
		for i := lo; i < hi; i++ {
			pred[i-lo] = model.Predict(X[i])
		}
		total += WeightedF1(y[lo:hi], pred)
	}
	return total / float64(k), nil
}

// GridSearch evaluates every combination with k-fold cross-validation,
// optimizing weighted F1. Trials are independent and run on a bounded worker
// pool; ctx carries the overall wall-clock budget and exceeding it aborts the
// whole search. Ties resolve to the earliest grid entry so results are
// deterministic.
func GridSearch(ctx context.Context, X [][]float64, y []int, grid []Params, k int) (Params, error) {
	type result struct {
		idx   int
		score float64
		err   error
	}

	workers := runtime.NumCPU()
	if workers > len(grid) {
		workers = len(grid)
	}

	jobs := make(chan int)
	results := make(chan result, len(grid))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				score, err := crossValidate(ctx, X, y, grid[idx], k)
				results <- result{idx: idx, score: score, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for idx := range grid {
			select {
			case jobs <- idx:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	bestIdx := -1
	bestScore := -1.0
	done := 0
	for r := range results {
		if r.err != nil {
			return Params{}, fmt.Errorf("grid search aborted: %w", r.err)
		}
		if r.score > bestScore || (r.score == bestScore && r.idx < bestIdx) {
			bestScore, bestIdx = r.score, r.idx
		}
		done++
	}
	if done < len(grid) {
		return Params{}, fmt.Errorf("grid search aborted: %w", ctx.Err())
	}
	return grid[bestIdx], nil
}
