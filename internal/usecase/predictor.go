package usecase

import (
	"context"
	"errors"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/registry"
	"StockPulse/internal/services/features"
	"StockPulse/pkg/cache"
	applogger "StockPulse/pkg/logger"
)

// lookbackBars bounds the live window: enough history to satisfy every
// rolling window with margin.
const lookbackBars = 90

const signalCacheTTL = 15 * time.Minute

// Predictor serves live predictions: rebuild features over a recent window,
// take the latest row, feed exactly the persisted schema to the loaded model.
type Predictor struct {
	feats     *FeatureService
	reg       *registry.Registry
	artifacts domrepo.ArtifactStore
	cache     cache.Service
	publisher domrepo.Publisher
	metrics   domrepo.Metrics
	l         *applogger.Logger
}

func NewPredictor(
	feats *FeatureService,
	reg *registry.Registry,
	artifacts domrepo.ArtifactStore,
	c cache.Service,
	pub domrepo.Publisher,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *Predictor {
	return &Predictor{
		feats:     feats,
		reg:       reg,
		artifacts: artifacts,
		cache:     c,
		publisher: pub,
		metrics:   metrics,
		l:         l,
	}
}

// Predict returns the current signal for a ticker.
func (p *Predictor) Predict(ctx context.Context, ticker string) (*models.Prediction, error) {
	if p.cache != nil {
		var cached models.Prediction
		if err := p.cache.Get(ctx, signalCacheKey(ticker), &cached); err == nil {
			return &cached, nil
		}
	}

	entry, ok := p.reg.Get(ticker)
	if !ok {
		// fall back to the store in case the artifact appeared after startup
		a, err := p.artifacts.Get(ctx, ticker)
		if err != nil {
			return nil, err
		}
		if err := p.reg.Swap(a); err != nil {
			return nil, err
		}
		entry, _ = p.reg.Get(ticker)
	}

	rows, err := p.feats.RecentDataset(ctx, ticker, lookbackBars)
	if err != nil {
		return nil, err
	}
	last := rows[len(rows)-1]

	x, err := features.Vector(last, entry.Schema)
	if err != nil {
		return nil, err
	}
	label := entry.Model.Predict(x)

	pred := &models.Prediction{
		Ticker: ticker,
		Signal: models.SignalName(label),
		Label:  label,
		AsOf:   last.Date,
	}
	if p.cache != nil {
		_ = p.cache.Set(ctx, signalCacheKey(ticker), pred, signalCacheTTL)
	}
	if p.publisher != nil {
		_ = p.publisher.Publish(ctx, ticker, map[string]interface{}{
			"event":  "prediction",
			"ticker": ticker,
			"signal": pred.Signal,
			"as_of":  pred.AsOf,
		})
	}
	if p.metrics != nil {
		p.metrics.RecordPrediction(ticker, pred.Signal)
	}
	p.l.Debug("prediction served",
		applogger.String("ticker", ticker),
		applogger.String("signal", pred.Signal),
	)
	return pred, nil
}

// Explainable failure predicates for the API layer.
func IsNoData(err error) bool       { return errors.Is(err, models.ErrNoData) }
func IsInsufficient(err error) bool { return errors.Is(err, models.ErrInsufficientHistory) }
