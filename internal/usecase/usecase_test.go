package usecase

import (
	"context"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/registry"
	"StockPulse/internal/services/features"
	applogger "StockPulse/pkg/logger"
)

const benchSymbol = "^IX"

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return l
}

func testDay(i int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

// fakeBars is an in-memory BarStore.
type fakeBars struct {
	bars map[string][]models.PriceBar
}

func newFakeBars() *fakeBars {
	return &fakeBars{bars: make(map[string][]models.PriceBar)}
}

func (f *fakeBars) UpsertBars(ctx context.Context, bars []models.PriceBar) error {
	for _, b := range bars {
		f.bars[b.Ticker] = append(f.bars[b.Ticker], b)
	}
	return nil
}

func (f *fakeBars) GetBars(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error) {
	var out []models.PriceBar
	for _, b := range f.bars[ticker] {
		if !b.Date.Before(from) && !b.Date.After(to) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeBars) GetLatestNBars(ctx context.Context, ticker string, n int) ([]models.PriceBar, error) {
	all := append([]models.PriceBar(nil), f.bars[ticker]...)
	sort.Slice(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

func (f *fakeBars) Health(ctx context.Context) error { return nil }

// fakeArticles is an in-memory ArticleStore keyed by (ticker, url).
type fakeArticles struct {
	articles map[string][]models.NewsArticle
}

func newFakeArticles() *fakeArticles {
	return &fakeArticles{articles: make(map[string][]models.NewsArticle)}
}

func (f *fakeArticles) UpsertArticles(ctx context.Context, articles []models.NewsArticle) error {
	for _, a := range articles {
		replaced := false
		for i, existing := range f.articles[a.Ticker] {
			if existing.URL == a.URL {
				f.articles[a.Ticker][i] = a
				replaced = true
				break
			}
		}
		if !replaced {
			f.articles[a.Ticker] = append(f.articles[a.Ticker], a)
		}
	}
	return nil
}

func (f *fakeArticles) GetArticles(ctx context.Context, ticker string, from, to time.Time) ([]models.NewsArticle, error) {
	var out []models.NewsArticle
	for _, a := range f.articles[ticker] {
		if !a.PublishedAt.Before(from) && !a.PublishedAt.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeArticles) GetUnscored(ctx context.Context, ticker string) ([]models.NewsArticle, error) {
	var out []models.NewsArticle
	for _, a := range f.articles[ticker] {
		if !a.Scored() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeArticles) SetSentiment(ctx context.Context, article models.NewsArticle, s models.Sentiment) error {
	for i, a := range f.articles[article.Ticker] {
		if a.URL == article.URL {
			a.Sentiment = &s
			f.articles[article.Ticker][i] = a
			return nil
		}
	}
	return nil
}

// fakeArtifacts is an in-memory ArtifactStore.
type fakeArtifacts struct {
	artifacts map[string]*models.Artifact
}

func newFakeArtifacts() *fakeArtifacts {
	return &fakeArtifacts{artifacts: make(map[string]*models.Artifact)}
}

func (f *fakeArtifacts) Put(ctx context.Context, a *models.Artifact) error {
	f.artifacts[a.Ticker] = a
	return nil
}

func (f *fakeArtifacts) Get(ctx context.Context, ticker string) (*models.Artifact, error) {
	a, ok := f.artifacts[ticker]
	if !ok {
		return nil, models.ErrModelNotFound
	}
	return a, nil
}

// trendBars grows the close by a fixed rate per day: every forward 5-day
// return clears the BUY threshold, so labels degenerate to one class.
func trendBars(ticker string, n int) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	c := 100.0
	for i := 0; i < n; i++ {
		bars[i] = models.PriceBar{
			Ticker: ticker, Date: testDay(i),
			Open: c * 0.999, High: c * 1.005, Low: c * 0.995, Close: c, Volume: 1000,
		}
		c *= 1.01
	}
	return bars
}

// waveBars oscillate hard enough that the forward 5-day return crosses both
// label thresholds, producing all three classes.
func waveBars(ticker string, n int) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	for i := 0; i < n; i++ {
		c := 100 + 10*math.Sin(float64(i)/3)
		bars[i] = models.PriceBar{
			Ticker: ticker, Date: testDay(i),
			Open: c - 0.5, High: c + 1, Low: c - 1, Close: c, Volume: 1000,
		}
	}
	return bars
}

// driftBars trend upward under an oscillation wide enough that forward 5-day
// returns still cross both label thresholds.
func driftBars(ticker string, n int) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	for i := 0; i < n; i++ {
		c := 100*math.Exp(0.004*float64(i)) + 8*math.Sin(float64(i)/3)
		bars[i] = models.PriceBar{
			Ticker: ticker, Date: testDay(i),
			Open: c - 0.5, High: c + 1, Low: c - 1, Close: c, Volume: 1000,
		}
	}
	return bars
}

func seedBars(t *testing.T, store *fakeBars, bars ...[]models.PriceBar) {
	t.Helper()
	for _, b := range bars {
		require.NoError(t, store.UpsertBars(context.Background(), b))
	}
}

func TestTrainerNoData(t *testing.T) {
	bars := newFakeBars()
	feats := NewFeatureService(bars, newFakeArticles(), benchSymbol)
	trainer := NewTrainer(feats, newFakeArtifacts(), registry.New(), nil, nil, nil, testLogger(t), time.Minute)

	err := trainer.Train(context.Background(), "AAA")
	assert.ErrorIs(t, err, models.ErrNoData)
	assert.True(t, IsSkip(err))
}

func TestTrainerSkipsDegenerateLabels(t *testing.T) {
	bars := newFakeBars()
	seedBars(t, bars, trendBars("AAA", 80), trendBars(benchSymbol, 80))

	artifacts := newFakeArtifacts()
	feats := NewFeatureService(bars, newFakeArticles(), benchSymbol)
	trainer := NewTrainer(feats, artifacts, registry.New(), nil, nil, nil, testLogger(t), time.Minute)

	err := trainer.Train(context.Background(), "AAA")
	assert.ErrorIs(t, err, models.ErrDegenerateLabels)
	assert.True(t, IsSkip(err))
	assert.Empty(t, artifacts.artifacts, "no artifact persisted on skip")
}

func TestTrainPredictBacktestEndToEnd(t *testing.T) {
	bars := newFakeBars()
	seedBars(t, bars, waveBars("AAA", 100), waveBars(benchSymbol, 100))

	artifacts := newFakeArtifacts()
	reg := registry.New()
	l := testLogger(t)
	feats := NewFeatureService(bars, newFakeArticles(), benchSymbol)
	trainer := NewTrainer(feats, artifacts, reg, nil, nil, nil, l, 2*time.Minute)

	require.NoError(t, trainer.Train(context.Background(), "AAA"))

	a, err := artifacts.Get(context.Background(), "AAA")
	require.NoError(t, err)
	assert.Equal(t, features.ModelSchema(), a.Schema)
	assert.NotEmpty(t, a.Model)
	assert.NotEmpty(t, a.Report)

	entry, ok := reg.Get("AAA")
	require.True(t, ok)
	assert.Equal(t, a.Schema, entry.Schema)

	predictor := NewPredictor(feats, reg, artifacts, nil, nil, nil, l)
	pred, err := predictor.Predict(context.Background(), "AAA")
	require.NoError(t, err)
	assert.Equal(t, "AAA", pred.Ticker)
	assert.Contains(t, []string{"BUY", "HOLD", "SELL"}, pred.Signal)
	assert.True(t, pred.AsOf.Equal(testDay(99)), "prediction dated to the latest bar")

	runner := NewBacktestRunner(feats, reg, artifacts, nil, nil, l)
	report, err := runner.Run(context.Background(), "AAA", 100000, 0.002)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, report.StartCash)
	assert.Equal(t, "AAA", report.Ticker)
	assert.NotEmpty(t, report.EquityCurve)
	assert.GreaterOrEqual(t, report.MaxDrawdown, 0.0)
}

func TestBacktestUptrendTurnsProfit(t *testing.T) {
	bars := newFakeBars()
	seedBars(t, bars, driftBars("AAA", 120), driftBars(benchSymbol, 120))

	artifacts := newFakeArtifacts()
	reg := registry.New()
	l := testLogger(t)
	feats := NewFeatureService(bars, newFakeArticles(), benchSymbol)
	trainer := NewTrainer(feats, artifacts, reg, nil, nil, nil, l, 2*time.Minute)

	require.NoError(t, trainer.Train(context.Background(), "AAA"))

	runner := NewBacktestRunner(feats, reg, artifacts, nil, nil, l)
	report, err := runner.Run(context.Background(), "AAA", 100000, 0.002)
	require.NoError(t, err)

	require.NotEmpty(t, report.Trades, "at least one completed round trip")
	best := report.Trades[0]
	for _, tr := range report.Trades {
		if tr.PnL > best.PnL {
			best = tr
		}
	}
	assert.Greater(t, best.PnL, 0.0, "winning round trip net of commission")
	assert.Greater(t, report.FinalEquity, report.StartCash)
	assert.Greater(t, report.TotalReturn, 0.0)
}

func TestPredictorModelNotFound(t *testing.T) {
	bars := newFakeBars()
	seedBars(t, bars, waveBars("AAA", 100), waveBars(benchSymbol, 100))

	feats := NewFeatureService(bars, newFakeArticles(), benchSymbol)
	predictor := NewPredictor(feats, registry.New(), newFakeArtifacts(), nil, nil, nil, testLogger(t))

	_, err := predictor.Predict(context.Background(), "AAA")
	assert.ErrorIs(t, err, models.ErrModelNotFound)
}

func TestBacktestRunnerNoModel(t *testing.T) {
	feats := NewFeatureService(newFakeBars(), newFakeArticles(), benchSymbol)
	runner := NewBacktestRunner(feats, registry.New(), newFakeArtifacts(), nil, nil, testLogger(t))

	_, err := runner.Run(context.Background(), "AAA", 100000, 0.002)
	assert.ErrorIs(t, err, models.ErrModelNotFound)
}
