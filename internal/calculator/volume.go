package calculator

import (
	"github.com/markcheno/go-talib"
)

// VolumeSMA is the rolling mean of volume over window.
func VolumeSMA(volumes []float64, window int) []float64 {
	return SMA(volumes, window)
}

// OBV computes on-balance volume: volume is added on up closes and subtracted
// on down closes. The series starts from the first bar's volume.
func OBV(closes, volumes []float64) []float64 {
	if len(closes) == 0 || len(closes) != len(volumes) {
		return nanSeries(len(closes))
	}
	return talib.Obv(closes, volumes)
}
