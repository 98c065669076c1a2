package calculator

import "math"

// TrueRange computes the per-bar true range. The first bar has no prior close,
// so its range is high minus low.
func TrueRange(high, low, close []float64) []float64 {
	out := make([]float64, len(close))
	for i := range close {
		hl := high[i] - low[i]
		if i == 0 {
			out[i] = hl
			continue
		}
		hc := math.Abs(high[i] - close[i-1])
		lc := math.Abs(low[i] - close[i-1])
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// ATR is the rolling mean of the true range over window.
func ATR(high, low, close []float64, window int) []float64 {
	return SMA(TrueRange(high, low, close), window)
}
