package usecase

import (
	"context"
	"time"

	"StockPulse/internal/backtest"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/registry"
	applogger "StockPulse/pkg/logger"
)

// BacktestRunner replays a ticker's full feature history through its
// persisted model.
type BacktestRunner struct {
	feats     *FeatureService
	reg       *registry.Registry
	artifacts domrepo.ArtifactStore
	publisher domrepo.Publisher
	metrics   domrepo.Metrics
	l         *applogger.Logger
}

func NewBacktestRunner(
	feats *FeatureService,
	reg *registry.Registry,
	artifacts domrepo.ArtifactStore,
	pub domrepo.Publisher,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *BacktestRunner {
	return &BacktestRunner{feats: feats, reg: reg, artifacts: artifacts, publisher: pub, metrics: metrics, l: l}
}

// Run simulates day-by-day trading for a ticker with the given account
// parameters.
func (r *BacktestRunner) Run(ctx context.Context, ticker string, cash, commission float64) (*backtest.Report, error) {
	start := time.Now()

	entry, ok := r.reg.Get(ticker)
	if !ok {
		a, err := r.artifacts.Get(ctx, ticker)
		if err != nil {
			return nil, err
		}
		if err := r.reg.Swap(a); err != nil {
			return nil, err
		}
		entry, _ = r.reg.Get(ticker)
	}

	rows, err := r.feats.Dataset(ctx, ticker)
	if err != nil {
		return nil, err
	}

	sim := &backtest.Simulator{Cash: cash, Commission: commission}
	report, err := sim.Run(rows, entry.Model, entry.Schema)
	if err != nil {
		return nil, err
	}

	if r.publisher != nil {
		_ = r.publisher.Publish(ctx, ticker, map[string]interface{}{
			"event":        "backtest",
			"ticker":       ticker,
			"total_return": report.TotalReturn,
			"trades":       report.TradeCount,
			"max_drawdown": report.MaxDrawdown,
		})
	}
	if r.metrics != nil {
		r.metrics.RecordLatency("backtest", time.Since(start).Seconds())
	}
	r.l.Info("backtest complete",
		applogger.String("ticker", ticker),
		applogger.Int("trades", report.TradeCount),
		applogger.Any("final_equity", report.FinalEquity),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return report, nil
}
