package features

import "math"

// Indicator functions return slices aligned with their input: index i holds
// the value for bar i, NaN while the trailing window is not yet satisfied.
// Undefined values are never imputed; the builder drops incomplete rows.

func undef() float64 { return math.NaN() }

func defined(v float64) bool { return !math.IsNaN(v) }

// SimpleReturns computes r_t = (C_t - C_{t-1}) / C_{t-1}. Index 0 is undefined.
func SimpleReturns(close []float64) []float64 {
	out := make([]float64, len(close))
	if len(close) > 0 {
		out[0] = undef()
	}
	for i := 1; i < len(close); i++ {
		prev := close[i-1]
		if prev == 0 {
			out[i] = undef()
			continue
		}
		out[i] = (close[i] - prev) / prev
	}
	return out
}

// PctChange computes (C_t - C_{t-k}) / C_{t-k} over a k-bar span.
func PctChange(close []float64, k int) []float64 {
	out := make([]float64, len(close))
	for i := range close {
		if i < k || close[i-k] == 0 {
			out[i] = undef()
			continue
		}
		out[i] = (close[i] - close[i-k]) / close[i-k]
	}
	return out
}

// RSI computes the Relative Strength Index with Wilder's smoothing.
// Defined from index period onward.
func RSI(close []float64, period int) []float64 {
	out := make([]float64, len(close))
	for i := range out {
		out[i] = undef()
	}
	if len(close) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := close[i] - close[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(close); i++ {
		d := close[i] - close[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// EMA computes an exponential moving average seeded with the SMA of the first
// span defined values. Leading NaNs in the input are skipped.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = undef()
	}
	start := 0
	for start < len(values) && !defined(values[start]) {
		start++
	}
	if len(values)-start < span {
		return out
	}

	sum := 0.0
	for i := start; i < start+span; i++ {
		sum += values[i]
	}
	alpha := 2.0 / float64(span+1)
	prev := sum / float64(span)
	out[start+span-1] = prev
	for i := start + span; i < len(values); i++ {
		prev = alpha*values[i] + (1-alpha)*prev
		out[i] = prev
	}
	return out
}

// MACD computes the MACD line, its signal line and the histogram using the
// conventional (fast, slow, signal) EMA spans.
func MACD(close []float64, fast, slow, signal int) (line, sig, hist []float64) {
	emaFast := EMA(close, fast)
	emaSlow := EMA(close, slow)

	line = make([]float64, len(close))
	for i := range close {
		if defined(emaFast[i]) && defined(emaSlow[i]) {
			line[i] = emaFast[i] - emaSlow[i]
		} else {
			line[i] = undef()
		}
	}
	sig = EMA(line, signal)
	hist = make([]float64, len(close))
	for i := range close {
		if defined(line[i]) && defined(sig[i]) {
			hist[i] = line[i] - sig[i]
		} else {
			hist[i] = undef()
		}
	}
	return line, sig, hist
}

// Bollinger computes volatility bands: an SMA midline plus/minus mult sample
// standard deviations over the window.
func Bollinger(close []float64, window int, mult float64) (upper, mid, lower []float64) {
	n := len(close)
	upper = make([]float64, n)
	mid = make([]float64, n)
	lower = make([]float64, n)
	for i := 0; i < n; i++ {
		if i < window-1 {
			upper[i], mid[i], lower[i] = undef(), undef(), undef()
			continue
		}
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += close[j]
		}
		m := sum / float64(window)
		var sq float64
		for j := i - window + 1; j <= i; j++ {
			d := close[j] - m
			sq += d * d
		}
		sd := math.Sqrt(sq / float64(window-1))
		mid[i] = m
		upper[i] = m + mult*sd
		lower[i] = m - mult*sd
	}
	return upper, mid, lower
}

// ATR computes the Average True Range with Wilder's smoothing.
// Defined from index period onward.
func ATR(high, low, close []float64, period int) []float64 {
	n := len(close)
	out := make([]float64, n)
	for i := range out {
		out[i] = undef()
	}
	if n <= period {
		return out
	}

	tr := make([]float64, n)
	for i := 1; i < n; i++ {
		hl := high[i] - low[i]
		hc := math.Abs(high[i] - close[i-1])
		lc := math.Abs(low[i] - close[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += tr[i]
	}
	prev := sum / float64(period)
	out[period] = prev
	for i := period + 1; i < n; i++ {
		prev = (prev*float64(period-1) + tr[i]) / float64(period)
		out[i] = prev
	}
	return out
}

// RollingCorr computes the trailing Pearson correlation between x and y over
// the window ending at each index. Undefined while the window contains any
// undefined value or either series is constant.
func RollingCorr(x, y []float64, window int) []float64 {
	n := len(x)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = undef()
		if i < window-1 {
			continue
		}
		ok := true
		var sx, sy, sxx, syy, sxy float64
		for j := i - window + 1; j <= i; j++ {
			if !defined(x[j]) || !defined(y[j]) {
				ok = false
				break
			}
			sx += x[j]
			sy += y[j]
			sxx += x[j] * x[j]
			syy += y[j] * y[j]
			sxy += x[j] * y[j]
		}
		if !ok {
			continue
		}
		w := float64(window)
		cov := sxy - sx*sy/w
		vx := sxx - sx*sx/w
		vy := syy - sy*sy/w
		if vx <= 0 || vy <= 0 {
			continue
		}
		out[i] = cov / math.Sqrt(vx*vy)
	}
	return out
}

// RollingMean computes the trailing mean over the window ending at each index.
func RollingMean(x []float64, window int) []float64 {
	n := len(x)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if i < window-1 {
			out[i] = undef()
			continue
		}
		ok := true
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			if !defined(x[j]) {
				ok = false
				break
			}
			sum += x[j]
		}
		if !ok {
			out[i] = undef()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}
