package calculator

import (
	"gonum.org/v1/gonum/stat"
)

// BollingerSeries holds the bands aligned with the input closes.
type BollingerSeries struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger computes bands at middle ± k standard deviations, where middle is
// the window SMA and the deviation is the sample standard deviation of the
// same window.
func Bollinger(closes []float64, window int, k float64) BollingerSeries {
	n := len(closes)
	bands := BollingerSeries{
		Upper:  nanSeries(n),
		Middle: SMA(closes, window),
		Lower:  nanSeries(n),
	}
	if window < 2 || n < window {
		return bands
	}
	for i := window - 1; i < n; i++ {
		sd := stat.StdDev(closes[i-window+1:i+1], nil)
		bands.Upper[i] = bands.Middle[i] + k*sd
		bands.Lower[i] = bands.Middle[i] - k*sd
	}
	return bands
}
