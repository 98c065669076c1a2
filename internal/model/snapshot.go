package model

import "math"

// Indicator names as they appear in snapshots and serialized results.
const (
	IndSMA20         = "sma_20"
	IndSMA50         = "sma_50"
	IndEMA12         = "ema_12"
	IndEMA26         = "ema_26"
	IndRSI           = "rsi"
	IndMACD          = "macd"
	IndMACDSignal    = "macd_signal"
	IndMACDHistogram = "macd_histogram"
	IndBBUpper       = "bb_upper"
	IndBBMiddle      = "bb_middle"
	IndBBLower       = "bb_lower"
	IndVolumeSMA     = "volume_sma"
	IndATR           = "atr"
	IndOBV           = "obv"
	IndResistance    = "resistance"
	IndSupport       = "support"
)

// IndicatorNames lists every snapshot indicator in display order.
var IndicatorNames = []string{
	IndSMA20, IndSMA50, IndEMA12, IndEMA26, IndRSI,
	IndMACD, IndMACDSignal, IndMACDHistogram,
	IndBBUpper, IndBBMiddle, IndBBLower,
	IndVolumeSMA, IndATR, IndOBV, IndResistance, IndSupport,
}

// IndicatorSnapshot holds indicator values evaluated at the last bar of a series.
// An indicator without enough history is NaN.
type IndicatorSnapshot struct {
	Price  float64
	Volume float64

	SMA20         float64
	SMA50         float64
	EMA12         float64
	EMA26         float64
	RSI           float64
	MACD          float64
	MACDSignal    float64
	MACDHistogram float64
	BBUpper       float64
	BBMiddle      float64
	BBLower       float64
	VolumeSMA     float64
	ATR           float64
	OBV           float64
	Resistance    float64
	Support       float64

	AboveSMA20      bool
	AboveSMA50      bool
	SMA20AboveSMA50 bool
}

// Get returns the named indicator and whether it is defined.
func (s *IndicatorSnapshot) Get(name string) (float64, bool) {
	var v float64
	switch name {
	case IndSMA20:
		v = s.SMA20
	case IndSMA50:
		v = s.SMA50
	case IndEMA12:
		v = s.EMA12
	case IndEMA26:
		v = s.EMA26
	case IndRSI:
		v = s.RSI
	case IndMACD:
		v = s.MACD
	case IndMACDSignal:
		v = s.MACDSignal
	case IndMACDHistogram:
		v = s.MACDHistogram
	case IndBBUpper:
		v = s.BBUpper
	case IndBBMiddle:
		v = s.BBMiddle
	case IndBBLower:
		v = s.BBLower
	case IndVolumeSMA:
		v = s.VolumeSMA
	case IndATR:
		v = s.ATR
	case IndOBV:
		v = s.OBV
	case IndResistance:
		v = s.Resistance
	case IndSupport:
		v = s.Support
	default:
		return 0, false
	}
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Defined reports whether the named indicator has a value.
func (s *IndicatorSnapshot) Defined(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// ATRPercent is the average true range as a percentage of the current price.
func (s *IndicatorSnapshot) ATRPercent() (float64, bool) {
	if math.IsNaN(s.ATR) || s.Price <= 0 {
		return 0, false
	}
	return s.ATR / s.Price * 100, true
}

// VolumeRatio is the current volume relative to its moving average.
func (s *IndicatorSnapshot) VolumeRatio() (float64, bool) {
	if math.IsNaN(s.VolumeSMA) || s.VolumeSMA <= 0 {
		return 0, false
	}
	return s.Volume / s.VolumeSMA, true
}

// TechnicalIndicators is the rounded, serializable subset of a snapshot.
// Undefined indicators encode as null.
type TechnicalIndicators struct {
	SMA20           *float64 `json:"sma_20"`
	SMA50           *float64 `json:"sma_50"`
	EMA12           *float64 `json:"ema_12"`
	EMA26           *float64 `json:"ema_26"`
	RSI             *float64 `json:"rsi"`
	MACD            *float64 `json:"macd"`
	MACDSignal      *float64 `json:"macd_signal"`
	MACDHistogram   *float64 `json:"macd_histogram"`
	BBUpper         *float64 `json:"bb_upper"`
	BBMiddle        *float64 `json:"bb_middle"`
	BBLower         *float64 `json:"bb_lower"`
	VolumeSMA       *float64 `json:"volume_sma"`
	ATR             *float64 `json:"atr"`
	OBV             *float64 `json:"obv"`
	Resistance      *float64 `json:"resistance"`
	Support         *float64 `json:"support"`
	PriceAboveSMA20 bool     `json:"price_above_sma_20"`
	PriceAboveSMA50 bool     `json:"price_above_sma_50"`
	SMA20AboveSMA50 bool     `json:"sma_20_above_sma_50"`
}

// Display rounds the snapshot to two decimals for output.
func (s *IndicatorSnapshot) Display() TechnicalIndicators {
	return TechnicalIndicators{
		SMA20:           roundedPtr(s.SMA20, 2),
		SMA50:           roundedPtr(s.SMA50, 2),
		EMA12:           roundedPtr(s.EMA12, 2),
		EMA26:           roundedPtr(s.EMA26, 2),
		RSI:             roundedPtr(s.RSI, 2),
		MACD:            roundedPtr(s.MACD, 4),
		MACDSignal:      roundedPtr(s.MACDSignal, 4),
		MACDHistogram:   roundedPtr(s.MACDHistogram, 4),
		BBUpper:         roundedPtr(s.BBUpper, 2),
		BBMiddle:        roundedPtr(s.BBMiddle, 2),
		BBLower:         roundedPtr(s.BBLower, 2),
		VolumeSMA:       roundedPtr(s.VolumeSMA, 0),
		ATR:             roundedPtr(s.ATR, 2),
		OBV:             roundedPtr(s.OBV, 0),
		Resistance:      roundedPtr(s.Resistance, 2),
		Support:         roundedPtr(s.Support, 2),
		PriceAboveSMA20: s.AboveSMA20,
		PriceAboveSMA50: s.AboveSMA50,
		SMA20AboveSMA50: s.SMA20AboveSMA50,
	}
}

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func roundedPtr(v float64, places int) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r := Round(v, places)
	return &r
}
