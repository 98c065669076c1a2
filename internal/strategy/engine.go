package strategy

import "StockScout/internal/model"

// Input is everything the scorer looks at. The last element of Closes and
// Volumes is the current bar and must agree with Snapshot.
type Input struct {
	Closes   []float64
	Volumes  []float64
	Snapshot *model.IndicatorSnapshot
}

// Scorer combines indicator values into a confidence score using a fixed set of weights.
type Scorer struct {
	Weights Weights
}

// NewScorer returns a scorer using w.
func NewScorer(w Weights) *Scorer {
	return &Scorer{Weights: w}
}

// Score computes the full score breakdown.
func (s *Scorer) Score(in Input) model.ScoreBreakdown {
	w := s.Weights
	b := model.ScoreBreakdown{
		PriceMomentum:      scorePriceMomentum(in, w),
		TechnicalStrength:  scoreTechnicalStrength(in, w),
		VolumeConfirmation: scoreVolumeConfirmation(in, w),
		TrendQuality:       scoreTrendQuality(in, w),
		RiskAdjustment:     scoreRiskAdjustment(in, w),
	}
	total := b.PriceMomentum + b.TechnicalStrength + b.VolumeConfirmation + b.TrendQuality + b.RiskAdjustment
	b.TotalScore = clamp(total, 0, 100)
	return b
}

// Score computes the breakdown with the default weights.
func Score(in Input) model.ScoreBreakdown {
	return NewScorer(DefaultWeights()).Score(in)
}
