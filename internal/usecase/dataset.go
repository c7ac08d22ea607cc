package usecase

import (
	"context"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/services/features"
)

// FeatureService is the single gateway to feature derivation. Training, live
// prediction and backtesting all build their matrices here, so the three call
// paths cannot drift apart.
type FeatureService struct {
	bars      domrepo.BarStore
	articles  domrepo.ArticleStore
	benchmark string // benchmark index symbol, e.g. ^NSEI
}

func NewFeatureService(bars domrepo.BarStore, articles domrepo.ArticleStore, benchmark string) *FeatureService {
	return &FeatureService{bars: bars, articles: articles, benchmark: benchmark}
}

// Dataset builds the full feature matrix for a ticker from everything the
// store holds.
func (s *FeatureService) Dataset(ctx context.Context, ticker string) ([]models.FeatureRow, error) {
	var begin, end time.Time // zero range = all history
	return s.build(ctx, ticker, begin, end, 0)
}

// RecentDataset builds the feature matrix over a bounded lookback window of
// trading days, enough to satisfy every rolling window for one live row.
func (s *FeatureService) RecentDataset(ctx context.Context, ticker string, lookback int) ([]models.FeatureRow, error) {
	return s.build(ctx, ticker, time.Time{}, time.Time{}, lookback)
}

func (s *FeatureService) build(ctx context.Context, ticker string, from, to time.Time, lookback int) ([]models.FeatureRow, error) {
	var (
		bars []models.PriceBar
		err  error
	)
	if lookback > 0 {
		bars, err = s.bars.GetLatestNBars(ctx, ticker, lookback)
	} else {
		bars, err = s.bars.GetBars(ctx, ticker, earliest(from), latest(to))
	}
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, models.ErrNoData
	}

	first := bars[0].Date
	last := bars[len(bars)-1].Date
	bench, err := s.bars.GetBars(ctx, s.benchmark, first, last)
	if err != nil {
		return nil, err
	}
	articles, err := s.articles.GetArticles(ctx, ticker, first, last.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	return features.Build(bars, bench, articles)
}

func earliest(t time.Time) time.Time {
	if t.IsZero() {
		return time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}

func latest(t time.Time) time.Time {
	if t.IsZero() {
		return time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}
