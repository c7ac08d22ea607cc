package features

import (
	"sort"
	"time"

	"StockPulse/internal/domain/models"
)

// Indicator parameters. Fixed: changing any of these invalidates every
// persisted schema.
const (
	RSIPeriod        = 14
	MACDFast         = 12
	MACDSlow         = 26
	MACDSignalSpan   = 9
	BollingerWindow  = 20
	BollingerMult    = 2.0
	ATRPeriod        = 14
	SentimentWindow  = 7
	CorrelationSpan  = 30
	PriceChangeShort = 1
	PriceChangeLong  = 5

	// MinBars is the practical minimum history: the 30-day correlation plus
	// indicator warm-ups.
	MinBars = 45
)

// Build derives the full feature matrix for one ticker. It is the only place
// indicator derivation happens; training, live prediction and backtesting all
// go through it, so identical inputs yield bit-identical output on every call
// path.
//
// Returns models.ErrNoData when bars is empty and models.ErrInsufficientHistory
// when no row survives the undefined-value drop.
func Build(bars, benchmark []models.PriceBar, articles []models.NewsArticle) ([]models.FeatureRow, error) {
	if len(bars) == 0 {
		return nil, models.ErrNoData
	}

	bars = sortedByDate(bars)
	n := len(bars)

	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closeP := make([]float64, n)
	volume := make([]float64, n)
	for i, b := range bars {
		open[i], high[i], low[i] = b.Open, b.High, b.Low
		closeP[i], volume[i] = b.Close, b.Volume
	}

	ret := SimpleReturns(closeP)
	benchRet := benchmarkReturns(bars, benchmark)

	outperf := make([]float64, n)
	for i := 0; i < n; i++ {
		if defined(ret[i]) && defined(benchRet[i]) {
			outperf[i] = ret[i] - benchRet[i]
		} else {
			outperf[i] = undef()
		}
	}

	// Daily sentiment: mean article score per calendar date, 0.0 where no
	// articles exist. Absence of news is neutral, not missing, so sentiment
	// never causes a row drop on its own.
	sent := dailySentiment(bars, articles)
	sent7d := RollingMean(sent, SentimentWindow)

	rsi := RSI(closeP, RSIPeriod)
	macd, macdSig, macdHist := MACD(closeP, MACDFast, MACDSlow, MACDSignalSpan)
	bbUpper, bbMid, bbLower := Bollinger(closeP, BollingerWindow, BollingerMult)
	atr := ATR(high, low, closeP, ATRPeriod)
	chg1d := PctChange(closeP, PriceChangeShort)
	chg5d := PctChange(closeP, PriceChangeLong)
	corr := RollingCorr(ret, benchRet, CorrelationSpan)

	columns := map[string][]float64{
		ColOpen:            open,
		ColHigh:            high,
		ColLow:             low,
		ColClose:           closeP,
		ColVolume:          volume,
		ColReturn:          ret,
		ColBenchmarkReturn: benchRet,
		ColSentiment:       sent,
		ColOutperformance:  outperf,
		ColRSI:             rsi,
		ColMACD:            macd,
		ColMACDSignal:      macdSig,
		ColMACDHist:        macdHist,
		ColBBUpper:         bbUpper,
		ColBBMid:           bbMid,
		ColBBLower:         bbLower,
		ColATR:             atr,
		ColSentiment7d:     sent7d,
		ColPriceChange1d:   chg1d,
		ColPriceChange5d:   chg5d,
		ColMarketCorr:      corr,
	}

	rows := make([]models.FeatureRow, 0, n)
	for i := 0; i < n; i++ {
		complete := true
		for _, col := range ColumnOrder {
			if !defined(columns[col][i]) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		f := make(map[string]float64, len(ColumnOrder))
		for _, col := range ColumnOrder {
			f[col] = columns[col][i]
		}
		rows = append(rows, models.FeatureRow{
			Ticker:   bars[i].Ticker,
			Date:     bars[i].Date,
			Close:    bars[i].Close,
			Features: f,
		})
	}

	if len(rows) == 0 {
		return nil, models.ErrInsufficientHistory
	}
	return rows, nil
}

// benchmarkReturns left-joins the benchmark return series onto the ticker's
// dates. A ticker date absent from the benchmark history is undefined and the
// row is dropped later.
func benchmarkReturns(bars, benchmark []models.PriceBar) []float64 {
	benchmark = sortedByDate(benchmark)
	benchClose := make([]float64, len(benchmark))
	for i, b := range benchmark {
		benchClose[i] = b.Close
	}
	benchRet := SimpleReturns(benchClose)

	byDate := make(map[string]float64, len(benchmark))
	for i, b := range benchmark {
		byDate[dateKey(b.Date)] = benchRet[i]
	}

	out := make([]float64, len(bars))
	for i, b := range bars {
		if v, ok := byDate[dateKey(b.Date)]; ok {
			out[i] = v
		} else {
			out[i] = undef()
		}
	}
	return out
}

func dailySentiment(bars []models.PriceBar, articles []models.NewsArticle) []float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, a := range articles {
		if !a.Scored() {
			continue
		}
		k := dateKey(a.PublishedAt)
		sums[k] += a.Sentiment.Score
		counts[k]++
	}

	out := make([]float64, len(bars))
	for i, b := range bars {
		k := dateKey(b.Date)
		if c := counts[k]; c > 0 {
			out[i] = sums[k] / float64(c)
		} else {
			out[i] = 0.0
		}
	}
	return out
}

func sortedByDate(bars []models.PriceBar) []models.PriceBar {
	out := make([]models.PriceBar, len(bars))
	copy(out, bars)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func dateKey(t time.Time) string { return t.UTC().Format("2006-01-02") }
