package analyzer

import (
	"math"

	"StockScout/internal/model"
)

// maxVolume is 2^63, the first float64 that does not fit the int64 result volume.
const maxVolume = float64(math.MaxInt64)

// Validate checks every bar and the ordering of the series. It returns a
// *model.BarError for the first offending bar.
func Validate(bars []model.Bar) error {
	for i, b := range bars {
		if err := validateBar(i, b); err != nil {
			return err
		}
		if i > 0 && !b.Time.After(bars[i-1].Time) {
			return &model.BarError{Index: i, Field: "time", Reason: "timestamp not after previous bar"}
		}
	}
	return nil
}

func validateBar(i int, b model.Bar) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"open", b.Open}, {"high", b.High}, {"low", b.Low}, {"close", b.Close}, {"volume", b.Volume},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &model.BarError{Index: i, Field: f.name, Reason: "not a finite number"}
		}
	}

	switch {
	case b.Volume < 0:
		return &model.BarError{Index: i, Field: "volume", Reason: "negative volume"}
	case b.Volume >= maxVolume:
		return &model.BarError{Index: i, Field: "volume", Reason: "volume exceeds int64 range"}
	case b.High < b.Low:
		return &model.BarError{Index: i, Field: "high", Reason: "high below low"}
	case b.High < math.Max(b.Open, b.Close):
		return &model.BarError{Index: i, Field: "high", Reason: "high below open or close"}
	case b.Low > math.Min(b.Open, b.Close):
		return &model.BarError{Index: i, Field: "low", Reason: "low above open or close"}
	}
	return nil
}
