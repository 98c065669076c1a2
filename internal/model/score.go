package model

// Component names of a score breakdown.
const (
	ComponentPriceMomentum      = "price_momentum"
	ComponentTechnicalStrength  = "technical_strength"
	ComponentVolumeConfirmation = "volume_confirmation"
	ComponentTrendQuality       = "trend_quality"
	ComponentRiskAdjustment     = "risk_adjustment"
)

// ScoreBreakdown is the result of the confidence scorer. Each component is
// non-negative and capped; TotalScore is their sum clamped to [0, 100].
type ScoreBreakdown struct {
	PriceMomentum      float64 `json:"price_momentum"`
	TechnicalStrength  float64 `json:"technical_strength"`
	VolumeConfirmation float64 `json:"volume_confirmation"`
	TrendQuality       float64 `json:"trend_quality"`
	RiskAdjustment     float64 `json:"risk_adjustment"`
	TotalScore         float64 `json:"total_score"`
}

// Components returns the five component values keyed by name.
func (b ScoreBreakdown) Components() map[string]float64 {
	return map[string]float64{
		ComponentPriceMomentum:      b.PriceMomentum,
		ComponentTechnicalStrength:  b.TechnicalStrength,
		ComponentVolumeConfirmation: b.VolumeConfirmation,
		ComponentTrendQuality:       b.TrendQuality,
		ComponentRiskAdjustment:     b.RiskAdjustment,
	}
}

// Rounded returns a copy with every value rounded to one decimal.
func (b ScoreBreakdown) Rounded() ScoreBreakdown {
	return ScoreBreakdown{
		PriceMomentum:      Round(b.PriceMomentum, 1),
		TechnicalStrength:  Round(b.TechnicalStrength, 1),
		VolumeConfirmation: Round(b.VolumeConfirmation, 1),
		TrendQuality:       Round(b.TrendQuality, 1),
		RiskAdjustment:     Round(b.RiskAdjustment, 1),
		TotalScore:         Round(b.TotalScore, 1),
	}
}
