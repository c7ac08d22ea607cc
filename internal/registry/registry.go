package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/ml"
	applogger "StockPulse/pkg/logger"
)

// Entry is a decoded (model, schema) pair ready for prediction. Entries are
// immutable after construction; retraining swaps in a fresh entry.
type Entry struct {
	Ticker    string
	Schema    []string
	Model     *ml.Classifier
	TrainedAt time.Time
}

// Registry maps ticker -> loaded model entry. Constructed once at process
// start, read-shared by concurrent prediction requests, and replaced per
// ticker via atomic swap on retraining. Never mutated in place, so a reader
// always sees a consistent pair and never a torn artifact mid-overwrite.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Get returns the loaded entry for a ticker, if any.
func (r *Registry) Get(ticker string) (*Entry, bool) {
	r.mu.RLock()
	e, ok := r.entries[ticker]
	r.mu.RUnlock()
	return e, ok
}

// Swap decodes a persisted artifact and replaces the ticker's entry.
func (r *Registry) Swap(a *models.Artifact) error {
	model, err := ml.Unmarshal(a.Model)
	if err != nil {
		return fmt.Errorf("registry swap %s: %w", a.Ticker, err)
	}
	e := &Entry{
		Ticker:    a.Ticker,
		Schema:    append([]string(nil), a.Schema...),
		Model:     model,
		TrainedAt: a.TrainedAt,
	}
	r.mu.Lock()
	r.entries[a.Ticker] = e
	r.mu.Unlock()
	return nil
}

// Warm loads persisted artifacts for the configured tickers at startup.
// Tickers without a trained model are skipped, not failed.
func (r *Registry) Warm(ctx context.Context, store domrepo.ArtifactStore, tickers []string, l *applogger.Logger) {
	for _, t := range tickers {
		a, err := store.Get(ctx, t)
		if err != nil {
			if !errors.Is(err, models.ErrModelNotFound) && l != nil {
				l.Warn("artifact load failed", applogger.String("ticker", t), applogger.Error(err))
			}
			continue
		}
		if err := r.Swap(a); err != nil {
			if l != nil {
				l.Warn("artifact decode failed", applogger.String("ticker", t), applogger.Error(err))
			}
			continue
		}
		if l != nil {
			l.Info("model loaded", applogger.String("ticker", t), applogger.Int("features", len(a.Schema)))
		}
	}
}
