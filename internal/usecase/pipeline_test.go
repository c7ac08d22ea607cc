package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/registry"
	"StockPulse/internal/services/sentiment"
)

// fakePriceSource serves canned bar histories per symbol, with optional
// per-symbol failures.
type fakePriceSource struct {
	bars map[string][]models.PriceBar
	errs map[string]error
}

func (f *fakePriceSource) DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error) {
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	return f.bars[symbol], nil
}

type fakeNewsSource struct {
	articles map[string][]models.NewsArticle
	errs     map[string]error
	calls    int
}

func (f *fakeNewsSource) Articles(ctx context.Context, ticker, query string, from, to time.Time) ([]models.NewsArticle, error) {
	f.calls++
	if err := f.errs[ticker]; err != nil {
		return nil, err
	}
	return f.articles[ticker], nil
}

func newTestPipeline(t *testing.T, prices *fakePriceSource, news *fakeNewsSource, bars *fakeBars, articles *fakeArticles) *Pipeline {
	t.Helper()
	l := testLogger(t)
	feats := NewFeatureService(bars, articles, benchSymbol)
	trainer := NewTrainer(feats, newFakeArtifacts(), registry.New(), nil, nil, nil, l, time.Minute)
	return NewPipeline(prices, news, sentiment.New(), bars, articles, trainer, nil, l,
		benchSymbol, map[string]string{"AAA": "Acme Industries"})
}

func TestPipelineCollectsAndScores(t *testing.T) {
	prices := &fakePriceSource{bars: map[string][]models.PriceBar{
		benchSymbol: trendBars(benchSymbol, 80),
		"AAA":       trendBars("AAA", 80),
	}}
	news := &fakeNewsSource{articles: map[string][]models.NewsArticle{
		"AAA": {
			{Ticker: "AAA", URL: "u1", Title: "Profits surge on strong growth",
				PublishedAt: time.Now().UTC().Add(-time.Hour)},
			{Ticker: "AAA", URL: "u2", Title: "",
				PublishedAt: time.Now().UTC().Add(-2 * time.Hour)},
		},
	}}
	bars := newFakeBars()
	articles := newFakeArticles()

	p := newTestPipeline(t, prices, news, bars, articles)
	p.Run(context.Background(), []string{"AAA"})

	// benchmark and ticker bars both persisted
	assert.Len(t, bars.bars[benchSymbol], 80)
	assert.Len(t, bars.bars["AAA"], 80)

	stored := articles.articles["AAA"]
	require.Len(t, stored, 2)
	byURL := map[string]*models.NewsArticle{}
	for i := range stored {
		byURL[stored[i].URL] = &stored[i]
	}
	require.True(t, byURL["u1"].Scored())
	assert.Greater(t, byURL["u1"].Sentiment.Score, 0.0)
	// empty text is never scored
	assert.False(t, byURL["u2"].Scored())
}

func TestPipelineIsolatesTickerFailures(t *testing.T) {
	prices := &fakePriceSource{
		bars: map[string][]models.PriceBar{
			benchSymbol: trendBars(benchSymbol, 80),
			"GOOD":      trendBars("GOOD", 80),
		},
		errs: map[string]error{"BAD": errors.New("quote host unreachable")},
	}
	bars := newFakeBars()
	articles := newFakeArticles()

	p := newTestPipeline(t, prices, &fakeNewsSource{}, bars, articles)
	p.Run(context.Background(), []string{"BAD", "GOOD"})

	// BAD fails price collection and is dropped; GOOD still runs to completion
	assert.Empty(t, bars.bars["BAD"])
	assert.Len(t, bars.bars["GOOD"], 80)
}

func TestPipelineNewsFailureIsNotFatal(t *testing.T) {
	prices := &fakePriceSource{bars: map[string][]models.PriceBar{
		benchSymbol: trendBars(benchSymbol, 80),
		"AAA":       trendBars("AAA", 80),
	}}
	news := &fakeNewsSource{errs: map[string]error{"AAA": errors.New("api key rejected")}}
	bars := newFakeBars()

	p := newTestPipeline(t, prices, news, bars, newFakeArticles())
	p.Run(context.Background(), []string{"AAA"})

	// a non-retryable news error is tried once; price data still lands
	assert.Equal(t, 1, news.calls)
	assert.Len(t, bars.bars["AAA"], 80)
}

func TestPipelineCanceledContext(t *testing.T) {
	prices := &fakePriceSource{bars: map[string][]models.PriceBar{
		benchSymbol: trendBars(benchSymbol, 80),
		"AAA":       trendBars("AAA", 80),
	}}
	bars := newFakeBars()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestPipeline(t, prices, &fakeNewsSource{}, bars, newFakeArticles())
	p.Run(ctx, []string{"AAA"})

	// the per-ticker loop checks the context before each ticker
	assert.Empty(t, bars.bars["AAA"])
}
