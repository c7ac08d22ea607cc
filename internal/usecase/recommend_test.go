package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
)

func recentBars(ticker string, n int, step float64) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	now := time.Now().UTC().Truncate(24 * time.Hour)
	c := 100.0
	for i := 0; i < n; i++ {
		bars[i] = models.PriceBar{
			Ticker: ticker, Date: now.AddDate(0, 0, i-n),
			Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000,
		}
		c += step
	}
	return bars
}

func scoredArticle(ticker, url string, score float64) models.NewsArticle {
	return models.NewsArticle{
		Ticker:      ticker,
		URL:         url,
		PublishedAt: time.Now().UTC().Add(-2 * time.Hour),
		Sentiment:   &models.Sentiment{Score: score},
	}
}

func TestRecommendSellOnOverboughtNegativeNews(t *testing.T) {
	bars := newFakeBars()
	seedBars(t, bars, recentBars("AAA", 40, 1.0)) // steady gains push RSI to 100

	articles := newFakeArticles()
	require.NoError(t, articles.UpsertArticles(context.Background(), []models.NewsArticle{
		scoredArticle("AAA", "u1", -0.6),
		scoredArticle("AAA", "u2", -0.4),
	}))

	r := NewRecommender(bars, articles, testLogger(t))
	out, err := r.Recommend(context.Background(), []string{"AAA"})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "SELL", out[0].Recommendation)
	assert.Greater(t, out[0].RSI, 70.0)
	assert.InDelta(t, -0.5, out[0].AvgSentiment, 1e-9)
}

func TestRecommendBuyOnPositiveNews(t *testing.T) {
	bars := newFakeBars()
	seedBars(t, bars, recentBars("AAA", 40, -1.0)) // steady losses keep RSI low

	articles := newFakeArticles()
	require.NoError(t, articles.UpsertArticles(context.Background(), []models.NewsArticle{
		scoredArticle("AAA", "u1", 0.5),
	}))

	r := NewRecommender(bars, articles, testLogger(t))
	out, err := r.Recommend(context.Background(), []string{"AAA"})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "BUY", out[0].Recommendation)
	assert.Less(t, out[0].RSI, 70.0)
}

func TestRecommendHoldWithoutNews(t *testing.T) {
	bars := newFakeBars()
	seedBars(t, bars, recentBars("AAA", 40, 1.0))

	r := NewRecommender(bars, newFakeArticles(), testLogger(t))
	out, err := r.Recommend(context.Background(), []string{"AAA"})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "HOLD", out[0].Recommendation)
	assert.Equal(t, 0.0, out[0].AvgSentiment)
}

func TestRecommendIgnoresUnscoredArticles(t *testing.T) {
	bars := newFakeBars()
	seedBars(t, bars, recentBars("AAA", 40, -1.0))

	articles := newFakeArticles()
	require.NoError(t, articles.UpsertArticles(context.Background(), []models.NewsArticle{
		{Ticker: "AAA", URL: "u1", PublishedAt: time.Now().UTC().Add(-time.Hour)},
	}))

	r := NewRecommender(bars, articles, testLogger(t))
	out, err := r.Recommend(context.Background(), []string{"AAA"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 0.0, out[0].AvgSentiment)
}

func TestRecommendSkipsUnusableTickers(t *testing.T) {
	bars := newFakeBars()
	seedBars(t, bars, recentBars("AAA", 40, 1.0), recentBars("SHORT", 5, 1.0))

	r := NewRecommender(bars, newFakeArticles(), testLogger(t))
	out, err := r.Recommend(context.Background(), []string{"MISSING", "SHORT", "AAA"})
	require.NoError(t, err)

	// no bars and too-short history are skipped, not failed
	require.Len(t, out, 1)
	assert.Equal(t, "AAA", out[0].Ticker)
}

func TestRecommendRule(t *testing.T) {
	cases := []struct {
		sentiment float64
		rsi       float64
		want      string
	}{
		{0.3, 50, "BUY"},
		{0.3, 80, "HOLD"},
		{-0.3, 80, "SELL"},
		{-0.3, 50, "HOLD"},
		{0.0, 50, "HOLD"},
		{0.15, 50, "HOLD"},
		{-0.15, 80, "HOLD"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, recommendRule(tc.sentiment, tc.rsi),
			"sentiment=%g rsi=%g", tc.sentiment, tc.rsi)
	}
}
