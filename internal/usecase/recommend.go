package usecase

import (
	"context"
	"math"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/services/features"
	applogger "StockPulse/pkg/logger"
)

const (
	recommendLookback = 30 // trading days of bars needed for a stable RSI
	sentimentWindow   = 7 * 24 * time.Hour
)

// Recommender serves the rule-based dashboard view: latest RSI plus the 7-day
// average news sentiment, mapped to a signal without any trained model.
type Recommender struct {
	bars     domrepo.BarStore
	articles domrepo.ArticleStore
	l        *applogger.Logger
}

func NewRecommender(bars domrepo.BarStore, articles domrepo.ArticleStore, l *applogger.Logger) *Recommender {
	return &Recommender{bars: bars, articles: articles, l: l}
}

// Recommend evaluates the rule for every requested ticker. Tickers with no
// usable data are skipped rather than failing the whole batch.
func (r *Recommender) Recommend(ctx context.Context, tickers []string) ([]models.Recommendation, error) {
	out := make([]models.Recommendation, 0, len(tickers))
	for _, ticker := range tickers {
		rec, err := r.one(ctx, ticker)
		if err != nil {
			if IsNoData(err) || IsInsufficient(err) {
				r.l.Debug("recommendation skipped", applogger.String("ticker", ticker), applogger.Error(err))
				continue
			}
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (r *Recommender) one(ctx context.Context, ticker string) (*models.Recommendation, error) {
	bars, err := r.bars.GetLatestNBars(ctx, ticker, recommendLookback)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, models.ErrNoData
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	rsi := features.RSI(closes, features.RSIPeriod)
	last := rsi[len(rsi)-1]
	if math.IsNaN(last) {
		return nil, models.ErrInsufficientHistory
	}

	avg, err := r.avgSentiment(ctx, ticker)
	if err != nil {
		return nil, err
	}

	return &models.Recommendation{
		Ticker:         ticker,
		RSI:            round2(last),
		AvgSentiment:   round4(avg),
		Recommendation: recommendRule(avg, last),
	}, nil
}

func (r *Recommender) avgSentiment(ctx context.Context, ticker string) (float64, error) {
	now := time.Now().UTC()
	articles, err := r.articles.GetArticles(ctx, ticker, now.Add(-sentimentWindow), now)
	if err != nil {
		return 0, err
	}
	var sum float64
	var n int
	for _, a := range articles {
		if !a.Scored() {
			continue
		}
		sum += a.Sentiment.Score
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

// recommendRule is the dashboard heuristic: positive news on a stock not yet
// overbought is a buy, negative news on an overbought stock is a sell.
func recommendRule(avgSentiment, rsi float64) string {
	switch {
	case avgSentiment > 0.15 && rsi < 70:
		return "BUY"
	case avgSentiment < -0.15 && rsi > 70:
		return "SELL"
	default:
		return "HOLD"
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
