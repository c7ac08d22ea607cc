package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	pkgch "StockPulse/pkg/clickhouse"
	applogger "StockPulse/pkg/logger"
)

// CHArticleStore implements ArticleStore backed by ClickHouse. Keyed by
// (ticker, url) on a ReplacingMergeTree with a version column, so scoring an
// article inserts a newer version that supersedes the unscored row.
type CHArticleStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHArticleStore(ch *pkgch.Client, table string) *CHArticleStore {
	return &CHArticleStore{db: ch.DB(), table: table}
}

func (s *CHArticleStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHArticleStore) UpsertArticles(ctx context.Context, articles []models.NewsArticle) error {
	if len(articles) == 0 {
		return nil
	}
	values := make([]string, 0, len(articles))
	args := make([]interface{}, 0, len(articles)*10)
	for _, a := range articles {
		if a.Ticker == "" || a.URL == "" {
			continue
		}
		score, label, scored := 0.0, "", uint8(0)
		if a.Scored() {
			score, label, scored = a.Sentiment.Score, a.Sentiment.Label, 1
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, a.Ticker, a.Source, a.Title, a.Description, a.URL,
			a.PublishedAt, score, label, scored, time.Now())
	}
	if len(values) == 0 {
		return nil
	}
	q := fmt.Sprintf(`INSERT INTO %s
        (ticker, source, title, description, url, published_at, sentiment_score, sentiment_label, scored, version)
        VALUES %s`, s.table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse upsert_articles error",
				applogger.String("table", s.table),
				applogger.Int("rows", len(values)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("upsert articles: %w", err)
	}
	return nil
}

func (s *CHArticleStore) GetArticles(ctx context.Context, ticker string, from, to time.Time) ([]models.NewsArticle, error) {
	q := fmt.Sprintf(`
        SELECT ticker, source, title, description, url, published_at, sentiment_score, sentiment_label, scored
        FROM %s FINAL
        WHERE ticker = ? AND published_at >= ? AND published_at <= ?
        ORDER BY published_at ASC
    `, s.table)
	return s.queryArticles(ctx, q, ticker, from, to)
}

func (s *CHArticleStore) GetUnscored(ctx context.Context, ticker string) ([]models.NewsArticle, error) {
	q := fmt.Sprintf(`
        SELECT ticker, source, title, description, url, published_at, sentiment_score, sentiment_label, scored
        FROM %s FINAL
        WHERE ticker = ? AND scored = 0
        ORDER BY published_at ASC
    `, s.table)
	return s.queryArticles(ctx, q, ticker)
}

// SetSentiment transitions an article from unscored to scored by inserting a
// newer version of its row. Articles are scored exactly once.
func (s *CHArticleStore) SetSentiment(ctx context.Context, a models.NewsArticle, sent models.Sentiment) error {
	q := fmt.Sprintf(`INSERT INTO %s
        (ticker, source, title, description, url, published_at, sentiment_score, sentiment_label, scored, version)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)
	_, err := s.db.ExecContext(ctx, q, a.Ticker, a.Source, a.Title, a.Description, a.URL,
		a.PublishedAt, sent.Score, sent.Label, uint8(1), time.Now())
	if err != nil {
		return fmt.Errorf("set sentiment: %w", err)
	}
	return nil
}

func (s *CHArticleStore) queryArticles(ctx context.Context, q string, args ...interface{}) ([]models.NewsArticle, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get articles: %w", err)
	}
	defer rows.Close()

	out := make([]models.NewsArticle, 0, 64)
	for rows.Next() {
		var a models.NewsArticle
		var score float64
		var label string
		var scored uint8
		if err := rows.Scan(&a.Ticker, &a.Source, &a.Title, &a.Description, &a.URL,
			&a.PublishedAt, &score, &label, &scored); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		if scored == 1 {
			a.Sentiment = &models.Sentiment{Score: score, Label: label}
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

var _ domrepo.ArticleStore = (*CHArticleStore)(nil)
