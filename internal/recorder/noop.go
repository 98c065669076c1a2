package recorder

import "StockScout/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunRecord, _ []model.AnalysisResult, _ []Failure) error {
	return nil
}
func (n *NoopRecorder) ScoreHistory(_ string, _ int) ([]ScorePoint, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                       { return nil }
