package calculator

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"StockScout/internal/model"
)

// SupportResistance returns the lowest and highest close of the most recent
// window bars, or of the whole series when it is shorter.
func SupportResistance(closes []float64, window int) (support, resistance float64, err error) {
	if len(closes) == 0 {
		return 0, 0, errors.New("no closes provided")
	}
	start := len(closes) - window
	if start < 0 {
		start = 0
	}
	recent := closes[start:]
	return floats.Min(recent), floats.Max(recent), nil
}

// Momentum returns the percent change of the last close versus the close
// lookback bars earlier.
func Momentum(closes []float64, lookback int) (float64, error) {
	n := len(closes)
	if lookback <= 0 || n <= lookback {
		return 0, model.ErrIndicatorUndefined
	}
	ref := closes[n-1-lookback]
	if ref == 0 {
		return 0, model.ErrIndicatorUndefined
	}
	return (closes[n-1] - ref) / ref * 100, nil
}

// BandPosition returns where price sits between lower and upper (0.0~1.0).
func BandPosition(price, upper, lower float64) (float64, error) {
	if upper == lower {
		return 0.5, nil
	}
	if upper < lower {
		return 0, errors.New("upper must be >= lower")
	}
	pos := (price - lower) / (upper - lower)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
