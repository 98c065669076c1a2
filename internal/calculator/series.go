package calculator

import (
	"math"

	"StockScout/internal/model"
)

// nanSeries returns a series of length n with every point undefined.
func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Last returns the value of series at its final point.
func Last(series []float64) (float64, error) {
	if len(series) == 0 {
		return 0, model.ErrIndicatorUndefined
	}
	v := series[len(series)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, model.ErrIndicatorUndefined
	}
	return v, nil
}

// lastOrNaN degrades an undefined tail to NaN.
func lastOrNaN(series []float64) float64 {
	v, err := Last(series)
	if err != nil {
		return math.NaN()
	}
	return v
}
