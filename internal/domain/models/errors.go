package models

import "errors"

// Failure taxonomy shared by the pipeline, the predictor and the API layer.
// Per-ticker failures are isolated: none of these aborts a batch run.
var (
	// ErrNoData: the ticker has no stored price history. Not fatal; the
	// caller may trigger ingestion.
	ErrNoData = errors.New("no price history for ticker")

	// ErrInsufficientHistory: feature derivation produced zero usable rows.
	// Not fatal; the caller should wait for more history.
	ErrInsufficientHistory = errors.New("insufficient history for feature derivation")

	// ErrSchemaMismatch: a persisted feature schema references a column the
	// feature builder no longer produces. Fatal for that ticker until it is
	// retrained.
	ErrSchemaMismatch = errors.New("feature schema mismatch")

	// ErrDegenerateLabels: fewer than three classes present at training
	// time. Training is skipped, not failed.
	ErrDegenerateLabels = errors.New("fewer than three label classes present")

	// ErrUpstreamUnavailable: a price or news source failed. Retried with
	// backoff; otherwise the ticker is skipped for the current run.
	ErrUpstreamUnavailable = errors.New("upstream source unavailable")

	// ErrRateLimited marks the rate-limit case of an upstream failure so
	// callers can defer instead of skipping.
	ErrRateLimited = errors.New("upstream source rate limited")

	// ErrModelNotFound: no trained artifact exists for the ticker.
	ErrModelNotFound = errors.New("no trained model for ticker")
)
