package model

// AnalysisResult is the per-ticker output of an analysis. It is a pure
// function of the ticker, its bars and the caller-supplied labels.
type AnalysisResult struct {
	Ticker              string              `json:"ticker"`
	CompanyName         string              `json:"company_name"`
	CurrentPrice        float64             `json:"current_price"`
	PriceChange         float64             `json:"price_change"`
	PriceChangePercent  float64             `json:"price_change_percent"`
	Volume              int64               `json:"volume"`
	ConfidenceScore     float64             `json:"confidence_score"`
	Analysis            string              `json:"analysis"`
	TechnicalIndicators TechnicalIndicators `json:"technical_indicators"`
	ScoreComponents     ScoreBreakdown      `json:"score_components"`
	Region              string              `json:"region"`
	DataSource          string              `json:"data_source,omitempty"`
	Catalyst            string              `json:"catalyst,omitempty"`
}

// Document is the published collection of results for one update run.
type Document struct {
	LastUpdated string           `json:"last_updated"`
	Stocks      []AnalysisResult `json:"stocks"`
}

// Find returns the result for ticker.
func (d *Document) Find(ticker string) (AnalysisResult, bool) {
	if d == nil {
		return AnalysisResult{}, false
	}
	for _, s := range d.Stocks {
		if s.Ticker == ticker {
			return s, true
		}
	}
	return AnalysisResult{}, false
}
