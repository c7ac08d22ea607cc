package usecase

import (
	"context"
	"errors"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	domsvc "StockPulse/internal/domain/service"
	applogger "StockPulse/pkg/logger"
)

// Pipeline runs the batch flow per ticker: collect prices, collect news,
// score sentiment, train. Every ticker is processed independently; one
// ticker's failure never aborts the rest of the batch.
type Pipeline struct {
	prices    domsvc.PriceSource
	news      domsvc.NewsSource
	scorer    domsvc.SentimentScorer
	bars      domrepo.BarStore
	articles  domrepo.ArticleStore
	trainer   *Trainer
	metrics   domrepo.Metrics
	l         *applogger.Logger
	benchmark string
	companies map[string]string // ticker -> company name for news queries
	history   time.Duration     // price history to fetch
	newsSpan  time.Duration     // news window to fetch
}

func NewPipeline(
	prices domsvc.PriceSource,
	news domsvc.NewsSource,
	scorer domsvc.SentimentScorer,
	bars domrepo.BarStore,
	articles domrepo.ArticleStore,
	trainer *Trainer,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	benchmark string,
	companies map[string]string,
) *Pipeline {
	return &Pipeline{
		prices:    prices,
		news:      news,
		scorer:    scorer,
		bars:      bars,
		articles:  articles,
		trainer:   trainer,
		metrics:   metrics,
		l:         l,
		benchmark: benchmark,
		companies: companies,
		history:   365 * 24 * time.Hour,
		newsSpan:  7 * 24 * time.Hour,
	}
}

// Run executes the full pipeline for the given tickers, benchmark first so
// every ticker's feature build can join against it.
func (p *Pipeline) Run(ctx context.Context, tickers []string) {
	now := time.Now().UTC()

	if err := p.collectPrices(ctx, p.benchmark, now); err != nil {
		p.l.Error("benchmark collection failed", applogger.String("symbol", p.benchmark), applogger.Error(err))
		if p.metrics != nil {
			p.metrics.RecordError("benchmark_collect")
		}
	}

	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			p.l.Warn("pipeline interrupted", applogger.Error(err))
			return
		}
		p.runTicker(ctx, ticker, now)
	}
}

func (p *Pipeline) runTicker(ctx context.Context, ticker string, now time.Time) {
	l := p.l
	if err := p.collectPrices(ctx, ticker, now); err != nil {
		l.Error("price collection failed", applogger.String("ticker", ticker), applogger.Error(err))
		if p.metrics != nil {
			p.metrics.RecordError("price_collect")
		}
		return
	}
	if err := p.collectNews(ctx, ticker, now); err != nil {
		// news is enrichment, not a prerequisite; training proceeds with
		// whatever sentiment exists
		l.Warn("news collection failed", applogger.String("ticker", ticker), applogger.Error(err))
		if p.metrics != nil {
			p.metrics.RecordError("news_collect")
		}
	}
	if err := p.scoreSentiment(ctx, ticker); err != nil {
		l.Warn("sentiment scoring failed", applogger.String("ticker", ticker), applogger.Error(err))
	}
	if err := p.trainer.Train(ctx, ticker); err != nil {
		if IsSkip(err) {
			l.Info("training skipped", applogger.String("ticker", ticker), applogger.String("reason", err.Error()))
			return
		}
		l.Error("training failed", applogger.String("ticker", ticker), applogger.Error(err))
		if p.metrics != nil {
			p.metrics.RecordError("train")
		}
	}
}

func (p *Pipeline) collectPrices(ctx context.Context, symbol string, now time.Time) error {
	bars, err := p.prices.DailyBars(ctx, symbol, now.Add(-p.history), now)
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		// delisted or unknown: "no data", not an error
		p.l.Warn("no bars returned", applogger.String("symbol", symbol))
		return nil
	}
	if err := p.bars.UpsertBars(ctx, bars); err != nil {
		return err
	}
	p.l.Info("bars collected", applogger.String("symbol", symbol), applogger.Int("rows", len(bars)))
	return nil
}

// collectNews fetches articles with retry: rate limits back off and retry,
// other upstream failures are retried a bounded number of times.
func (p *Pipeline) collectNews(ctx context.Context, ticker string, now time.Time) error {
	query := p.companies[ticker]
	if query == "" {
		query = ticker
	}

	const attempts = 3
	backoff := 2 * time.Second
	var err error
	for i := 0; i < attempts; i++ {
		var articles []models.NewsArticle
		articles, err = p.news.Articles(ctx, ticker, query, now.Add(-p.newsSpan), now)
		if err == nil {
			if len(articles) == 0 {
				return nil
			}
			return p.articles.UpsertArticles(ctx, articles)
		}
		if !errors.Is(err, models.ErrRateLimited) && !errors.Is(err, models.ErrUpstreamUnavailable) {
			return err
		}
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// scoreSentiment lazily enriches unscored articles; each article is scored
// exactly once.
func (p *Pipeline) scoreSentiment(ctx context.Context, ticker string) error {
	unscored, err := p.articles.GetUnscored(ctx, ticker)
	if err != nil {
		return err
	}
	scored := 0
	for _, a := range unscored {
		text := a.Title + ". " + a.Description
		if len(text) <= 2 {
			continue
		}
		s := p.scorer.Score(text)
		if err := p.articles.SetSentiment(ctx, a, s); err != nil {
			return err
		}
		scored++
	}
	if scored > 0 {
		p.l.Info("sentiment scored", applogger.String("ticker", ticker), applogger.Int("articles", scored))
	}
	return nil
}
