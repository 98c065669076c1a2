// Package analyzer turns a validated bar series into an AnalysisResult.
// It performs no I/O and holds no state between calls.
package analyzer

import (
	"StockScout/internal/calculator"
	"StockScout/internal/model"
	"StockScout/internal/strategy"
)

// Options carries the caller-supplied labels and history policy.
type Options struct {
	Region      string
	CompanyName string // defaults to the ticker
	// StrictHistory requires enough bars for every indicator to be defined.
	StrictHistory bool
}

// Analyzer scores series with a fixed scorer.
type Analyzer struct {
	scorer *strategy.Scorer
}

// New returns an analyzer using scorer, or the default weights when scorer is nil.
func New(scorer *strategy.Scorer) *Analyzer {
	if scorer == nil {
		scorer = strategy.NewScorer(strategy.DefaultWeights())
	}
	return &Analyzer{scorer: scorer}
}

// Analyze scores bars with the default weights.
func Analyze(ticker string, bars []model.Bar, opts Options) (*model.AnalysisResult, error) {
	return New(nil).Analyze(ticker, bars, opts)
}

// MinBars returns the shortest series accepted under opts.
func MinBars(opts Options) int {
	if opts.StrictHistory {
		return calculator.FullHistory
	}
	return calculator.MinHistory
}

// Analyze validates bars, builds the indicator snapshot, scores it and
// assembles the result.
func (a *Analyzer) Analyze(ticker string, bars []model.Bar, opts Options) (*model.AnalysisResult, error) {
	if err := Validate(bars); err != nil {
		return nil, err
	}
	if need := MinBars(opts); len(bars) < need {
		return nil, &model.HistoryError{Have: len(bars), Need: need}
	}

	snap, err := calculator.BuildSnapshot(bars)
	if err != nil {
		return nil, err
	}

	breakdown := a.scorer.Score(strategy.Input{
		Closes:   model.Closes(bars),
		Volumes:  model.Volumes(bars),
		Snapshot: snap,
	})

	current := bars[len(bars)-1].Close
	prev := bars[len(bars)-2].Close
	change := current - prev
	var changePct float64
	if prev != 0 {
		changePct = change / prev * 100
	}

	name := opts.CompanyName
	if name == "" {
		name = ticker
	}

	return &model.AnalysisResult{
		Ticker:              ticker,
		CompanyName:         name,
		CurrentPrice:        model.Round(current, 2),
		PriceChange:         model.Round(change, 2),
		PriceChangePercent:  model.Round(changePct, 2),
		Volume:              int64(bars[len(bars)-1].Volume),
		ConfidenceScore:     model.Round(breakdown.TotalScore, 1),
		Analysis:            strategy.Narrate(breakdown, snap),
		TechnicalIndicators: snap.Display(),
		ScoreComponents:     breakdown.Rounded(),
		Region:              opts.Region,
	}, nil
}
