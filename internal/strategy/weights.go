package strategy

// Band awards Points when a value clears Above. Bands are checked in order
// and the first match wins.
type Band struct {
	Above  float64
	Points float64
}

// Lookback awards up to Points for momentum over Bars bars.
type Lookback struct {
	Bars   int
	Points float64
}

// Weights holds every threshold and point value of the scoring rules.
type Weights struct {
	// price_momentum
	MomentumCap       float64
	Lookbacks         []Lookback
	MomentumFull      float64 // % above which a lookback earns its full points
	MomentumPartial   float64 // % above which it earns PartialShare
	PartialShare      float64
	ReducedShare      float64 // share earned for any positive move
	AboveSMA20Bonus   float64
	AboveSMA50Bonus   float64
	SMACrossoverBonus float64

	// technical_strength
	TechnicalCap     float64
	RSIBands         []RSIBand
	HistogramBonus   float64
	MACDBonus        float64
	BandPositionLow  float64
	BandPositionHigh float64
	BandBonus        float64

	// volume_confirmation
	VolumeCap         float64
	VolumeRatioBands  []Band
	VolumeRunDays     int
	VolumeRunBonus    float64
	VolumeRisingBonus float64

	// trend_quality
	TrendCap        float64
	TrendRunDays    int
	TrendRunBonus   float64
	TrendShortDays  int
	TrendShortBonus float64
	TrendATRBands   []Band // compared as ATR% below Above
	EMAAlignBonus   float64

	// risk_adjustment
	RiskCap          float64
	RiskATRPenalties []Band // ATR% above Above costs Points
	RiskRSIPenalties []Band // RSI above Above costs Points
	OversoldRSI      float64
	OversoldBonus    float64
	NeutralRSI       float64
}

// RSIBand awards Points when RSI lies within [Low, High].
type RSIBand struct {
	Low    float64
	High   float64
	Points float64
}

// DefaultWeights returns the canonical tuning. Component caps sum to 100.
func DefaultWeights() Weights {
	return Weights{
		MomentumCap: 30,
		Lookbacks: []Lookback{
			{Bars: 5, Points: 12},
			{Bars: 10, Points: 8},
			{Bars: 20, Points: 10},
		},
		MomentumFull:      8,
		MomentumPartial:   4,
		PartialShare:      2.0 / 3.0,
		ReducedShare:      1.0 / 3.0,
		AboveSMA20Bonus:   3,
		AboveSMA50Bonus:   3,
		SMACrossoverBonus: 4,

		TechnicalCap: 25,
		RSIBands: []RSIBand{
			{Low: 45, High: 65, Points: 10},
			{Low: 40, High: 70, Points: 7},
			{Low: 35, High: 75, Points: 4},
		},
		HistogramBonus:   8,
		MACDBonus:        4,
		BandPositionLow:  0.5,
		BandPositionHigh: 0.8,
		BandBonus:        7,

		VolumeCap: 20,
		VolumeRatioBands: []Band{
			{Above: 2.0, Points: 12},
			{Above: 1.5, Points: 8},
			{Above: 1.2, Points: 5},
		},
		VolumeRunDays:     5,
		VolumeRunBonus:    5,
		VolumeRisingBonus: 3,

		TrendCap:        15,
		TrendRunDays:    10,
		TrendRunBonus:   8,
		TrendShortDays:  5,
		TrendShortBonus: 5,
		TrendATRBands: []Band{
			{Above: 2.5, Points: 4},
			{Above: 4, Points: 2},
		},
		EMAAlignBonus: 3,

		RiskCap: 10,
		RiskATRPenalties: []Band{
			{Above: 6, Points: 6},
			{Above: 4, Points: 3},
		},
		RiskRSIPenalties: []Band{
			{Above: 75, Points: 3},
			{Above: 70, Points: 1},
		},
		OversoldRSI:   30,
		OversoldBonus: 2,
		NeutralRSI:    50,
	}
}

// firstBand returns the points of the first band whose threshold v exceeds.
func firstBand(bands []Band, v float64) float64 {
	for _, b := range bands {
		if v > b.Above {
			return b.Points
		}
	}
	return 0
}

// firstBandBelow returns the points of the first band whose threshold exceeds v.
func firstBandBelow(bands []Band, v float64) float64 {
	for _, b := range bands {
		if v < b.Above {
			return b.Points
		}
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
