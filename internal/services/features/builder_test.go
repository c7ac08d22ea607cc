package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
)

func day(i int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

// makeBars produces n synthetic daily bars with a mild oscillating trend.
func makeBars(ticker string, n int) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	for i := 0; i < n; i++ {
		c := 100 + 0.2*float64(i) + 5*math.Sin(float64(i)/4)
		bars[i] = models.PriceBar{
			Ticker: ticker,
			Date:   day(i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000 + float64(i),
		}
	}
	return bars
}

func TestBuildNoData(t *testing.T) {
	_, err := Build(nil, makeBars("^IX", 10), nil)
	assert.ErrorIs(t, err, models.ErrNoData)
}

func TestBuildInsufficientHistory(t *testing.T) {
	_, err := Build(makeBars("AAA", 10), makeBars("^IX", 10), nil)
	assert.ErrorIs(t, err, models.ErrInsufficientHistory)
}

func TestBuildDropsWarmupRows(t *testing.T) {
	const n = 60
	rows, err := Build(makeBars("AAA", n), makeBars("^IX", n), nil)
	require.NoError(t, err)

	// the MACD signal line is the slowest column: the slow EMA seeds at index
	// 25 and the 9-span signal EMA first defines at index 33
	assert.Len(t, rows, n-33)
	assert.Equal(t, day(33), rows[0].Date)
	assert.Equal(t, day(n-1), rows[len(rows)-1].Date)

	for _, row := range rows {
		for _, col := range ColumnOrder {
			v, ok := row.Features[col]
			require.True(t, ok, "row %s missing column %s", row.Date, col)
			require.False(t, math.IsNaN(v), "row %s column %s undefined", row.Date, col)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	bars := makeBars("AAA", 70)
	bench := makeBars("^IX", 70)

	a, err := Build(bars, bench, nil)
	require.NoError(t, err)
	b, err := Build(bars, bench, nil)
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Date, b[i].Date)
		for _, col := range ColumnOrder {
			assert.Equal(t, a[i].Features[col], b[i].Features[col],
				"row %d column %s differs between runs", i, col)
		}
	}
}

func TestBuildSortsUnorderedBars(t *testing.T) {
	bars := makeBars("AAA", 60)
	bench := makeBars("^IX", 60)
	rows, err := Build(bars, bench, nil)
	require.NoError(t, err)

	reversed := make([]models.PriceBar, len(bars))
	for i, b := range bars {
		reversed[len(bars)-1-i] = b
	}
	rows2, err := Build(reversed, bench, nil)
	require.NoError(t, err)
	require.Equal(t, len(rows), len(rows2))
	for i := range rows {
		assert.Equal(t, rows[i].Date, rows2[i].Date)
		assert.Equal(t, rows[i].Features[ColRSI], rows2[i].Features[ColRSI])
	}
}

func TestBuildSentimentDefaultsToNeutral(t *testing.T) {
	rows, err := Build(makeBars("AAA", 60), makeBars("^IX", 60), nil)
	require.NoError(t, err)
	for _, row := range rows {
		assert.Equal(t, 0.0, row.Features[ColSentiment])
		assert.Equal(t, 0.0, row.Features[ColSentiment7d])
	}
}

func TestBuildAggregatesDailySentiment(t *testing.T) {
	bars := makeBars("AAA", 60)
	articles := []models.NewsArticle{
		{Ticker: "AAA", URL: "u1", PublishedAt: day(40), Sentiment: &models.Sentiment{Score: 0.8}},
		{Ticker: "AAA", URL: "u2", PublishedAt: day(40), Sentiment: &models.Sentiment{Score: 0.4}},
		{Ticker: "AAA", URL: "u3", PublishedAt: day(41)}, // unscored, ignored
	}
	rows, err := Build(bars, makeBars("^IX", 60), articles)
	require.NoError(t, err)

	byDate := make(map[time.Time]models.FeatureRow, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r
	}
	require.Contains(t, byDate, day(40))
	assert.InDelta(t, 0.6, byDate[day(40)].Features[ColSentiment], 1e-9)
	assert.Equal(t, 0.0, byDate[day(41)].Features[ColSentiment])
}

func TestBuildDropsRowsMissingBenchmark(t *testing.T) {
	bars := makeBars("AAA", 60)
	bench := makeBars("^IX", 60)
	// remove one benchmark date in the middle: that ticker date has no
	// benchmark return and must not survive
	bench = append(bench[:45], bench[46:]...)

	rows, err := Build(bars, bench, nil)
	require.NoError(t, err)
	for _, row := range rows {
		assert.NotEqual(t, day(45), row.Date)
	}
}

func TestBuildOutperformance(t *testing.T) {
	bars := makeBars("AAA", 60)
	bench := makeBars("^IX", 60)
	rows, err := Build(bars, bench, nil)
	require.NoError(t, err)
	for _, row := range rows {
		want := row.Features[ColReturn] - row.Features[ColBenchmarkReturn]
		assert.InDelta(t, want, row.Features[ColOutperformance], 1e-12)
	}
}
