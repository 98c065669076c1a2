package calculator

import (
	"gonum.org/v1/gonum/floats"
)

// NeutralRSI is reported when there was no price movement at all in the window.
const NeutralRSI = 50.0

// RSI computes the relative strength index using simple rolling means of
// gains and losses. The first bar has no prior close and counts as no change.
//
// A window without losses saturates at 100; a window without any movement
// is neutral. Neither case divides by zero.
func RSI(closes []float64, window int) []float64 {
	n := len(closes)
	out := nanSeries(n)
	if window <= 0 || n < window {
		return out
	}

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	// Summed per window rather than as a running total so that an all-zero
	// loss window is exactly zero.
	for i := window - 1; i < n; i++ {
		avgGain := floats.Sum(gains[i-window+1:i+1]) / float64(window)
		avgLoss := floats.Sum(losses[i-window+1:i+1]) / float64(window)
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}
	return out
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	switch {
	case avgLoss == 0 && avgGain == 0:
		return NeutralRSI
	case avgLoss == 0:
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
