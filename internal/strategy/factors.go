package strategy

import (
	"StockScout/internal/calculator"
	"StockScout/internal/model"
)

// scorePriceMomentum rewards positive multi-horizon momentum and price sitting
// above rising averages.
// Cap: 30
func scorePriceMomentum(in Input, w Weights) float64 {
	var score float64
	for _, lb := range w.Lookbacks {
		m, err := calculator.Momentum(in.Closes, lb.Bars)
		if err != nil {
			continue
		}
		switch {
		case m > w.MomentumFull:
			score += lb.Points
		case m > w.MomentumPartial:
			score += lb.Points * w.PartialShare
		case m > 0:
			score += lb.Points * w.ReducedShare
		}
	}

	snap := in.Snapshot
	if snap.AboveSMA20 {
		score += w.AboveSMA20Bonus
	}
	if snap.AboveSMA50 {
		score += w.AboveSMA50Bonus
	}
	if snap.SMA20AboveSMA50 {
		score += w.SMACrossoverBonus
	}
	return clamp(score, 0, w.MomentumCap)
}

// scoreTechnicalStrength scores RSI banding, MACD direction and Bollinger position.
// Cap: 25
func scoreTechnicalStrength(in Input, w Weights) float64 {
	snap := in.Snapshot
	rsi := rsiOrNeutral(snap, w)

	var score float64
	for _, b := range w.RSIBands {
		if rsi >= b.Low && rsi <= b.High {
			score += b.Points
			break
		}
	}

	if snap.MACDHistogram > 0 {
		score += w.HistogramBonus
	}
	if snap.MACD > 0 {
		score += w.MACDBonus
	}

	if snap.Defined(model.IndBBUpper) && snap.Defined(model.IndBBLower) {
		pos, err := calculator.BandPosition(snap.Price, snap.BBUpper, snap.BBLower)
		if err == nil && pos > w.BandPositionLow && pos < w.BandPositionHigh {
			score += w.BandBonus
		}
	}
	return clamp(score, 0, w.TechnicalCap)
}

// scoreVolumeConfirmation scores relative volume and a rising volume run.
// Cap: 20
func scoreVolumeConfirmation(in Input, w Weights) float64 {
	var score float64
	if ratio, ok := in.Snapshot.VolumeRatio(); ok {
		score += firstBand(w.VolumeRatioBands, ratio)
	}

	vols := in.Volumes
	n := len(vols)
	if n >= w.VolumeRunDays && w.VolumeRunDays > 1 {
		switch {
		case nonDecreasing(vols[n-w.VolumeRunDays:]):
			score += w.VolumeRunBonus
		case vols[n-w.VolumeRunDays] < vols[n-1]:
			score += w.VolumeRisingBonus
		}
	}
	return clamp(score, 0, w.VolumeCap)
}

// scoreTrendQuality scores the steadiness of the recent advance.
// Cap: 15
func scoreTrendQuality(in Input, w Weights) float64 {
	var score float64
	closes := in.Closes
	n := len(closes)
	switch {
	case n >= w.TrendRunDays && nonDecreasing(closes[n-w.TrendRunDays:]):
		score += w.TrendRunBonus
	case n >= w.TrendShortDays && closes[n-1] > closes[n-w.TrendShortDays]:
		score += w.TrendShortBonus
	}

	snap := in.Snapshot
	if atrPct, ok := snap.ATRPercent(); ok {
		score += firstBandBelow(w.TrendATRBands, atrPct)
	}
	if snap.EMA12 > snap.EMA26 && snap.EMA12 > snap.SMA50 {
		score += w.EMAAlignBonus
	}
	return clamp(score, 0, w.TrendCap)
}

// scoreRiskAdjustment starts from the cap and deducts for volatility and
// overbought conditions.
// Cap: 10
func scoreRiskAdjustment(in Input, w Weights) float64 {
	snap := in.Snapshot
	score := w.RiskCap
	if atrPct, ok := snap.ATRPercent(); ok {
		score -= firstBand(w.RiskATRPenalties, atrPct)
	}
	rsi := rsiOrNeutral(snap, w)
	score -= firstBand(w.RiskRSIPenalties, rsi)
	if rsi < w.OversoldRSI {
		score += w.OversoldBonus
	}
	return clamp(score, 0, w.RiskCap)
}

func rsiOrNeutral(snap *model.IndicatorSnapshot, w Weights) float64 {
	if v, ok := snap.Get(model.IndRSI); ok {
		return v
	}
	return w.NeutralRSI
}

func nonDecreasing(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			return false
		}
	}
	return true
}
