package strategy

import (
	"fmt"
	"strings"

	"StockScout/internal/model"
)

// Separator joins narrative sentences.
const Separator = " | "

type tier struct {
	MinScore float64
	Text     string
}

// Overall tiers, highest first. Text takes the total score.
var overallTiers = []tier{
	{65, "Bullish setup with broad multi-factor confirmation (score %.1f/100)"},
	{50, "Constructive setup with partial confirmation (score %.1f/100)"},
	{35, "Mixed signals, wait for confirmation (score %.1f/100)"},
	{0, "Weak setup with little supporting evidence (score %.1f/100)"},
}

var momentumTiers = []tier{
	{20, "Strong multi-timeframe price momentum"},
	{10, "Moderate price momentum"},
	{0, "Limited price momentum"},
}

// Technical tiers. Text takes the RSI as a string.
var technicalTiers = []tier{
	{18, "Technicals strong (RSI %s)"},
	{10, "Technicals neutral to positive (RSI %s)"},
	{0, "Technicals weak (RSI %s)"},
}

// strongWithMACD replaces the strong technical sentence when the MACD histogram is positive.
const strongWithMACD = "Technicals strong (RSI %s, MACD supportive)"

// Volume tiers. The strongest takes the volume ratio.
var volumeTiers = []tier{
	{12, "Heavy volume confirms the move (%.1fx average)"},
	{5, "Volume supportive"},
	{0, "Volume not confirming"},
}

// Risk caveat thresholds.
const (
	OverboughtRSI      = 70.0
	OversoldRSI        = 35.0
	HighVolatilityATR  = 5.0
	overboughtCaveat   = "Caution: RSI %.1f is overbought"
	oversoldCaveat     = "Note: RSI %.1f is oversold, rebound potential"
	volatilityCaveat   = "Caution: high volatility (ATR %.1f%% of price)"
	undefinedIndicator = "n/a"
)

func pickTier(tiers []tier, score float64) string {
	for _, t := range tiers {
		if score >= t.MinScore {
			return t.Text
		}
	}
	return tiers[len(tiers)-1].Text
}

// Narrate renders the breakdown and snapshot as a short rationale. Sentences
// follow a fixed topic order: overall, momentum, technical, volume, risk.
func Narrate(b model.ScoreBreakdown, snap *model.IndicatorSnapshot) string {
	rsiText := undefinedIndicator
	rsi, rsiOK := snap.Get(model.IndRSI)
	if rsiOK {
		rsiText = fmt.Sprintf("%.1f", rsi)
	}

	technical := pickTier(technicalTiers, b.TechnicalStrength)
	if b.TechnicalStrength >= technicalTiers[0].MinScore && snap.MACDHistogram > 0 {
		technical = strongWithMACD
	}

	parts := []string{
		fmt.Sprintf(pickTier(overallTiers, b.TotalScore), b.TotalScore),
		pickTier(momentumTiers, b.PriceMomentum),
		fmt.Sprintf(technical, rsiText),
	}

	if b.VolumeConfirmation >= volumeTiers[0].MinScore {
		ratio, _ := snap.VolumeRatio()
		parts = append(parts, fmt.Sprintf(volumeTiers[0].Text, ratio))
	} else {
		parts = append(parts, pickTier(volumeTiers, b.VolumeConfirmation))
	}

	atrPct, atrOK := snap.ATRPercent()
	switch {
	case rsiOK && rsi > OverboughtRSI:
		parts = append(parts, fmt.Sprintf(overboughtCaveat, rsi))
	case rsiOK && rsi < OversoldRSI:
		parts = append(parts, fmt.Sprintf(oversoldCaveat, rsi))
	case atrOK && atrPct > HighVolatilityATR:
		parts = append(parts, fmt.Sprintf(volatilityCaveat, atrPct))
	}

	return strings.Join(parts, Separator)
}
