package models

import (
	"encoding/json"
	"time"
)

// PriceBar is one daily OHLCV record for a ticker. Bars are immutable once
// stored; exactly one bar exists per (ticker, date), ordered by date ascending
// for all downstream computation. The benchmark index series uses the same
// shape under its own symbol.
type PriceBar struct {
	Ticker string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Sentiment is the score a lexicon scorer attaches to an article.
// Score is the normalized compound valence in [-1, 1].
type Sentiment struct {
	Score float64 `json:"score"`
	Label string  `json:"label"` // "positive", "neutral", "negative"
}

// NewsArticle is a news item fetched for a ticker. Sentiment is nil until the
// scorer processes the article; articles transition from unscored to scored
// exactly once and are never re-scored.
type NewsArticle struct {
	Ticker      string
	Source      string
	Title       string
	Description string
	URL         string
	PublishedAt time.Time
	Sentiment   *Sentiment
}

// Scored reports whether the article has been through sentiment scoring.
func (a *NewsArticle) Scored() bool { return a.Sentiment != nil }

// FeatureRow is one fully derived row of the feature matrix for a ticker.
// Features holds every column the builder produces, raw and derived, keyed by
// column name; the trainer carves the model input out of it via the leakage
// exclusion list.
type FeatureRow struct {
	Ticker   string
	Date     time.Time
	Close    float64
	Features map[string]float64
}

// Label values for the three-way signal.
const (
	LabelSell = 0
	LabelHold = 1
	LabelBuy  = 2
)

// SignalName maps a class label to its trading signal.
func SignalName(label int) string {
	switch label {
	case LabelBuy:
		return "BUY"
	case LabelSell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Artifact is the persisted (model, feature schema) pair for one ticker.
// The model payload is opaque at this layer; internal/ml owns its encoding.
// Artifacts are immutable once persisted and overwritten wholesale on
// retraining.
type Artifact struct {
	Ticker    string          `json:"ticker"`
	Schema    []string        `json:"schema"`
	Model     json.RawMessage `json:"model"`
	Report    json.RawMessage `json:"report,omitempty"`
	TrainedAt time.Time       `json:"trained_at"`
}

// Prediction is the outcome of a live prediction request.
type Prediction struct {
	Ticker string    `json:"ticker"`
	Signal string    `json:"signal"`
	Label  int       `json:"label"`
	AsOf   time.Time `json:"as_of"`
}

// Recommendation is the rule-based RSI + sentiment view served on the
// dashboard endpoint, independent of any trained model.
type Recommendation struct {
	Ticker         string  `json:"ticker"`
	RSI            float64 `json:"rsi"`
	AvgSentiment   float64 `json:"avg_sentiment"`
	Recommendation string  `json:"recommendation"`
}
