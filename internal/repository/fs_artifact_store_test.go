package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
)

func testArtifact(ticker string, trainedAt time.Time) *models.Artifact {
	return &models.Artifact{
		Ticker:    ticker,
		Schema:    []string{"rsi_14", "atr_14"},
		Model:     json.RawMessage(`{"params":{"max_depth":3}}`),
		TrainedAt: trainedAt,
	}
}

func TestFSArtifactStoreRoundTrip(t *testing.T) {
	store, err := NewFSArtifactStore(t.TempDir())
	require.NoError(t, err)

	want := testArtifact("RELIANCE.NS", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, store.Put(context.Background(), want))

	got, err := store.Get(context.Background(), "RELIANCE.NS")
	require.NoError(t, err)
	assert.Equal(t, want.Ticker, got.Ticker)
	assert.Equal(t, want.Schema, got.Schema)
	assert.JSONEq(t, string(want.Model), string(got.Model))
	assert.True(t, want.TrainedAt.Equal(got.TrainedAt))
}

func TestFSArtifactStoreGetUnknownTicker(t *testing.T) {
	store, err := NewFSArtifactStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "UNKNOWN.NS")
	assert.ErrorIs(t, err, models.ErrModelNotFound)
}

func TestFSArtifactStoreOverwrite(t *testing.T) {
	store, err := NewFSArtifactStore(t.TempDir())
	require.NoError(t, err)

	first := testArtifact("TCS.NS", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.Put(context.Background(), first))

	second := testArtifact("TCS.NS", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	second.Schema = []string{"macd"}
	require.NoError(t, store.Put(context.Background(), second))

	got, err := store.Get(context.Background(), "TCS.NS")
	require.NoError(t, err)
	assert.Equal(t, []string{"macd"}, got.Schema)
	assert.True(t, second.TrainedAt.Equal(got.TrainedAt))
}

func TestFSArtifactStorePutMissingTicker(t *testing.T) {
	store, err := NewFSArtifactStore(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, store.Put(context.Background(), &models.Artifact{}))
	assert.Error(t, store.Put(context.Background(), nil))
}

func TestFSArtifactStoreTickerSanitization(t *testing.T) {
	store, err := NewFSArtifactStore(t.TempDir())
	require.NoError(t, err)

	// path separators in a ticker must not escape the artifact directory
	a := testArtifact("../evil/ticker", time.Now().UTC())
	require.NoError(t, store.Put(context.Background(), a))

	got, err := store.Get(context.Background(), "../evil/ticker")
	require.NoError(t, err)
	assert.Equal(t, "../evil/ticker", got.Ticker)
}
