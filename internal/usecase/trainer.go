package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/ml"
	"StockPulse/internal/registry"
	"StockPulse/internal/services/features"
	"StockPulse/pkg/cache"
	applogger "StockPulse/pkg/logger"
)

const (
	trainSplit     = 0.8
	cvFolds        = 3
	oversampleSeed = 42
)

// Trainer builds the labeled dataset for a ticker, tunes and fits the
// classifier, and persists the (model, schema) pair atomically.
type Trainer struct {
	feats     *FeatureService
	artifacts domrepo.ArtifactStore
	reg       *registry.Registry
	cache     cache.Service
	publisher domrepo.Publisher
	metrics   domrepo.Metrics
	l         *applogger.Logger
	budget    time.Duration // wall-clock budget for the grid search
}

func NewTrainer(
	feats *FeatureService,
	artifacts domrepo.ArtifactStore,
	reg *registry.Registry,
	c cache.Service,
	pub domrepo.Publisher,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	budget time.Duration,
) *Trainer {
	return &Trainer{
		feats:     feats,
		artifacts: artifacts,
		reg:       reg,
		cache:     c,
		publisher: pub,
		metrics:   metrics,
		l:         l,
		budget:    budget,
	}
}

// Train runs the full training flow for one ticker. Degenerate label
// distributions are skipped with a log, not failed; other errors are returned
// for the caller to isolate.
func (t *Trainer) Train(ctx context.Context, ticker string) error {
	start := time.Now()

	rows, err := t.feats.Dataset(ctx, ticker)
	if err != nil {
		return err
	}
	labels := features.Labels(rows)
	rows, labels = features.Labeled(rows, labels)
	if len(rows) == 0 {
		return models.ErrInsufficientHistory
	}

	if distinct(labels) < ml.NumClasses {
		t.l.Warn("skipping training: degenerate label distribution",
			applogger.String("ticker", ticker),
			applogger.Int("classes", distinct(labels)),
			applogger.Int("rows", len(rows)),
		)
		if t.metrics != nil {
			t.metrics.RecordTraining(ticker, "skipped")
		}
		return models.ErrDegenerateLabels
	}

	// Schema is the column list minus the leakage exclusions, fixed before
	// any matrix is carved so training and inference see the same columns.
	schema := features.ModelSchema()
	X, err := features.Matrix(rows, schema)
	if err != nil {
		return err
	}

	// Temporal split, unshuffled: shuffling would leak future rows into
	// training.
	cut := int(float64(len(X)) * trainSplit)
	trainX, trainY := X[:cut], labels[:cut]
	testX, testY := X[cut:], labels[cut:]

	// Oversample the training split only; the holdout keeps its natural
	// distribution.
	trainX, trainY = ml.Oversample(trainX, trainY, oversampleSeed)

	searchCtx := ctx
	if t.budget > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, t.budget)
		defer cancel()
	}
	best, err := ml.GridSearch(searchCtx, trainX, trainY, ml.Grid(), cvFolds)
	if err != nil {
		return err
	}

	model, err := ml.Fit(trainX, trainY, best)
	if err != nil {
		return err
	}

	pred := make([]int, len(testX))
	for i, x := range testX {
		pred[i] = model.Predict(x)
	}
	report := ml.Evaluate(testY, pred)
	report.BestParams = best
	t.l.Info("holdout evaluation",
		applogger.String("ticker", ticker),
		applogger.String("params", best.String()),
		applogger.Any("report", report),
	)

	modelRaw, err := model.Marshal()
	if err != nil {
		return err
	}
	reportRaw, _ := json.Marshal(report)
	artifact := &models.Artifact{
		Ticker:    ticker,
		Schema:    schema,
		Model:     modelRaw,
		Report:    reportRaw,
		TrainedAt: time.Now().UTC(),
	}
	if err := t.artifacts.Put(ctx, artifact); err != nil {
		return err
	}
	if err := t.reg.Swap(artifact); err != nil {
		return err
	}
	if t.cache != nil {
		// stale cached predictions must not outlive the old model
		_ = t.cache.Delete(ctx, signalCacheKey(ticker))
	}
	if t.publisher != nil {
		_ = t.publisher.Publish(ctx, ticker, map[string]interface{}{
			"event":       "model_trained",
			"ticker":      ticker,
			"weighted_f1": report.WeightedF1,
			"trained_at":  artifact.TrainedAt,
		})
	}
	if t.metrics != nil {
		t.metrics.RecordTraining(ticker, "trained")
		t.metrics.RecordLatency("train", time.Since(start).Seconds())
	}
	t.l.Info("model trained",
		applogger.String("ticker", ticker),
		applogger.Int("rows", len(rows)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

// IsSkip reports whether a training error is an expected skip rather than a
// failure.
func IsSkip(err error) bool {
	return errors.Is(err, models.ErrDegenerateLabels) ||
		errors.Is(err, models.ErrNoData) ||
		errors.Is(err, models.ErrInsufficientHistory)
}

func distinct(labels []int) int {
	seen := make(map[int]bool, ml.NumClasses)
	for _, y := range labels {
		seen[y] = true
	}
	return len(seen)
}

func signalCacheKey(ticker string) string { return cache.GenerateKey("signal", ticker) }
