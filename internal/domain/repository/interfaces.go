package repository

import (
	"context"
	"time"

	"StockPulse/internal/domain/models"
)

// BarStore persists daily OHLCV bars, keyed by (ticker, date).
type BarStore interface {
	UpsertBars(ctx context.Context, bars []models.PriceBar) error
	GetBars(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error)
	GetLatestNBars(ctx context.Context, ticker string, n int) ([]models.PriceBar, error)
	Health(ctx context.Context) error
}

// ArticleStore persists news articles, keyed by (ticker, url).
type ArticleStore interface {
	UpsertArticles(ctx context.Context, articles []models.NewsArticle) error
	GetArticles(ctx context.Context, ticker string, from, to time.Time) ([]models.NewsArticle, error)
	GetUnscored(ctx context.Context, ticker string) ([]models.NewsArticle, error)
	SetSentiment(ctx context.Context, article models.NewsArticle, s models.Sentiment) error
}

// ArtifactStore persists the (model, schema) pair per ticker. Put must be
// atomic: a partially written pair must never be observable.
type ArtifactStore interface {
	Put(ctx context.Context, a *models.Artifact) error
	Get(ctx context.Context, ticker string) (*models.Artifact, error)
}

// Publisher emits domain events (signals, training summaries) to downstream
// consumers.
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// Metrics records operational metrics.
type Metrics interface {
	RecordPrediction(ticker, signal string)
	RecordTraining(ticker, outcome string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
