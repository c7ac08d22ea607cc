package service

import (
	"context"
	"time"

	"StockPulse/internal/domain/models"
)

// PriceSource fetches daily OHLCV bars for a symbol. An empty result for a
// delisted or unknown symbol is "no data", not an error.
type PriceSource interface {
	DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error)
}

// NewsSource fetches articles mentioning a company. Implementations signal
// rate limiting distinctly (models.ErrRateLimited) from other failures.
type NewsSource interface {
	Articles(ctx context.Context, ticker, query string, from, to time.Time) ([]models.NewsArticle, error)
}

// SentimentScorer maps article text to a sentiment score. Stateless,
// deterministic, no side effects.
type SentimentScorer interface {
	Score(text string) models.Sentiment
}
