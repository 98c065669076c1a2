package recorder

import (
	"time"

	"StockScout/internal/model"
)

// RunRecord summarizes one watchlist update.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Analyzed   int
	Failed     int
}

// Failure records a ticker that produced no result in a run.
type Failure struct {
	Ticker string
	Region string
	Reason string // insufficient_history, invalid_bar, fetch, canceled
	Error  string
}

// ScorePoint is one historical confidence score of a ticker.
type ScorePoint struct {
	RunID      string    `json:"run_id"`
	RecordedAt time.Time `json:"recorded_at"`
	Score      float64   `json:"confidence_score"`
	Price      float64   `json:"current_price"`
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(run *RunRecord, results []model.AnalysisResult, failures []Failure) error
	ScoreHistory(ticker string, limit int) ([]ScorePoint, error)
	Close() error
}
