package features

import (
	"fmt"

	"StockPulse/internal/domain/models"
)

// Column names produced by the builder, in canonical order. The order is part
// of the determinism contract: every call path sees the same columns in the
// same positions.
const (
	ColOpen            = "open"
	ColHigh            = "high"
	ColLow             = "low"
	ColClose           = "close"
	ColVolume          = "volume"
	ColReturn          = "return"
	ColBenchmarkReturn = "benchmark_return"
	ColSentiment       = "sentiment"
	ColOutperformance  = "outperformance"
	ColRSI             = "rsi_14"
	ColMACD            = "macd"
	ColMACDSignal      = "macd_signal"
	ColMACDHist        = "macd_hist"
	ColBBUpper         = "bb_upper"
	ColBBMid           = "bb_mid"
	ColBBLower         = "bb_lower"
	ColATR             = "atr_14"
	ColSentiment7d     = "sentiment_7d_avg"
	ColPriceChange1d   = "price_change_1d"
	ColPriceChange5d   = "price_change_5d"
	ColMarketCorr      = "market_correlation"
)

// ColumnOrder lists every column a FeatureRow carries, raw and derived.
var ColumnOrder = []string{
	ColOpen, ColHigh, ColLow, ColClose, ColVolume,
	ColReturn, ColBenchmarkReturn, ColSentiment,
	ColOutperformance,
	ColRSI,
	ColMACD, ColMACDSignal, ColMACDHist,
	ColBBUpper, ColBBMid, ColBBLower,
	ColATR,
	ColSentiment7d,
	ColPriceChange1d, ColPriceChange5d,
	ColMarketCorr,
}

// leakageExclusions is the single named exclusion list carving model input
// out of a full row: identifiers, raw OHLCV, raw unaggregated sentiment and
// raw returns never reach a model. Including any of them inflates offline
// accuracy while breaking live parity.
var leakageExclusions = map[string]bool{
	ColOpen:            true,
	ColHigh:            true,
	ColLow:             true,
	ColClose:           true,
	ColVolume:          true,
	ColReturn:          true,
	ColBenchmarkReturn: true,
	ColSentiment:       true,
}

// Excluded reports whether a column is on the leakage exclusion list.
func Excluded(col string) bool { return leakageExclusions[col] }

// ModelSchema returns the ordered feature-name list a model is trained on:
// ColumnOrder minus the leakage exclusions.
func ModelSchema() []string {
	out := make([]string, 0, len(ColumnOrder))
	for _, c := range ColumnOrder {
		if !leakageExclusions[c] {
			out = append(out, c)
		}
	}
	return out
}

// Vector selects exactly the schema columns, in schema order, from one row.
// A column the row does not carry is a hard error, never silently skipped.
func Vector(row models.FeatureRow, schema []string) ([]float64, error) {
	out := make([]float64, len(schema))
	for i, col := range schema {
		v, ok := row.Features[col]
		if !ok {
			return nil, fmt.Errorf("%w: column %q not produced by feature builder", models.ErrSchemaMismatch, col)
		}
		out[i] = v
	}
	return out, nil
}

// Matrix applies Vector to every row.
func Matrix(rows []models.FeatureRow, schema []string) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		v, err := Vector(r, schema)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
