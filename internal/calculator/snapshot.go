package calculator

import (
	"math"

	"StockScout/internal/model"
)

const (
	// MinHistory is the fewest bars a snapshot can be built from.
	MinHistory = 20
	// FullHistory is the bar count at which every indicator is defined.
	FullHistory = 50
)

// Standard indicator windows.
const (
	ShortWindow     = 20
	LongWindow      = 50
	RSIWindow       = 14
	ATRWindow       = 14
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignalSpan  = 9
	BollingerWindow = 20
	BollingerK      = 2.0
	VolumeWindow    = 20
	RangeWindow     = 20
)

// BuildSnapshot evaluates the full indicator set at the last bar.
// Indicators whose window exceeds the series are NaN in the snapshot.
func BuildSnapshot(bars []model.Bar) (*model.IndicatorSnapshot, error) {
	if len(bars) < MinHistory {
		return nil, &model.HistoryError{Have: len(bars), Need: MinHistory}
	}

	closes := model.Closes(bars)
	highs := model.Highs(bars)
	lows := model.Lows(bars)
	volumes := model.Volumes(bars)
	last := bars[len(bars)-1]

	macd := MACD(closes, MACDFast, MACDSlow, MACDSignalSpan)
	bands := Bollinger(closes, BollingerWindow, BollingerK)

	snap := &model.IndicatorSnapshot{
		Price:  last.Close,
		Volume: last.Volume,

		SMA20:         lastOrNaN(SMA(closes, ShortWindow)),
		SMA50:         lastOrNaN(SMA(closes, LongWindow)),
		EMA12:         lastOrNaN(EMA(closes, MACDFast)),
		EMA26:         lastOrNaN(EMA(closes, MACDSlow)),
		RSI:           lastOrNaN(RSI(closes, RSIWindow)),
		MACD:          lastOrNaN(macd.Line),
		MACDSignal:    lastOrNaN(macd.Signal),
		MACDHistogram: lastOrNaN(macd.Histogram),
		BBUpper:       lastOrNaN(bands.Upper),
		BBMiddle:      lastOrNaN(bands.Middle),
		BBLower:       lastOrNaN(bands.Lower),
		VolumeSMA:     lastOrNaN(VolumeSMA(volumes, VolumeWindow)),
		ATR:           lastOrNaN(ATR(highs, lows, closes, ATRWindow)),
		OBV:           lastOrNaN(OBV(closes, volumes)),
		Support:       math.NaN(),
		Resistance:    math.NaN(),
	}

	if support, resistance, err := SupportResistance(closes, RangeWindow); err == nil {
		snap.Support = support
		snap.Resistance = resistance
	}

	// NaN compares false, so undefined averages leave the flags unset.
	snap.AboveSMA20 = snap.Price > snap.SMA20
	snap.AboveSMA50 = snap.Price > snap.SMA50
	snap.SMA20AboveSMA50 = snap.SMA20 > snap.SMA50

	return snap, nil
}
