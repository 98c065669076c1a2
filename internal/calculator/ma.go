package calculator

import (
	"github.com/markcheno/go-talib"
)

// SMA computes the trailing simple moving average of values over window.
// Points with fewer than window observations are NaN.
func SMA(values []float64, window int) []float64 {
	out := nanSeries(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	sma := talib.Sma(values, window)
	copy(out[window-1:], sma[window-1:])
	return out
}

// EMA computes the recursive exponential moving average with
// alpha = 2/(span+1), seeded with the first value of the series.
func EMA(values []float64, span int) []float64 {
	if span <= 0 {
		return nanSeries(len(values))
	}
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = out[i-1] + alpha*(values[i]-out[i-1])
	}
	return out
}
