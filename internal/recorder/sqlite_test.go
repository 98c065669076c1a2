package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockScout/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "db", "scout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func run(at time.Time, analyzed, failed int) *RunRecord {
	return &RunRecord{
		ID:         uuid.NewString(),
		StartedAt:  at.Add(-time.Minute),
		FinishedAt: at,
		Analyzed:   analyzed,
		Failed:     failed,
	}
}

func TestSQLiteRecorder_RecordAndHistory(t *testing.T) {
	r := openTestRecorder(t)
	day1 := time.Date(2024, 6, 4, 22, 30, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	first := run(day1, 1, 1)
	require.NoError(t, r.RecordRun(first,
		[]model.AnalysisResult{{Ticker: "AAPL", Region: "US", CurrentPrice: 190, ConfidenceScore: 61.5}},
		[]Failure{{Ticker: "BP.L", Region: "UK", Reason: "fetch", Error: "timeout"}},
	))
	second := run(day2, 2, 0)
	require.NoError(t, r.RecordRun(second,
		[]model.AnalysisResult{
			{Ticker: "AAPL", Region: "US", CurrentPrice: 195, ConfidenceScore: 70},
			{Ticker: "MSFT", Region: "US", CurrentPrice: 420, ConfidenceScore: 40},
		},
		nil,
	))

	points, err := r.ScoreHistory("AAPL", 10)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, second.ID, points[0].RunID)
	assert.Equal(t, 70.0, points[0].Score)
	assert.Equal(t, day2, points[0].RecordedAt)
	assert.Equal(t, 190.0, points[1].Price)

	points, err = r.ScoreHistory("AAPL", 1)
	require.NoError(t, err)
	assert.Len(t, points, 1)

	points, err = r.ScoreHistory("NVDA", 10)
	require.NoError(t, err)
	assert.Empty(t, points)

	var failures int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM failures WHERE run_id = ?`, first.ID).Scan(&failures))
	assert.Equal(t, 1, failures)
}

func TestSQLiteRecorder_DuplicateRunRollsBack(t *testing.T) {
	r := openTestRecorder(t)
	rec := run(time.Now().UTC(), 1, 0)
	res := []model.AnalysisResult{{Ticker: "AAPL", ConfidenceScore: 50}}

	require.NoError(t, r.RecordRun(rec, res, nil))
	assert.Error(t, r.RecordRun(rec, res, nil))

	points, err := r.ScoreHistory("AAPL", 10)
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestSQLiteRecorder_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scout.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordRun(run(time.Now(), 1, 0), []model.AnalysisResult{{Ticker: "AMD"}}, nil))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()
	points, err := r.ScoreHistory("AMD", 5)
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(&RunRecord{}, nil, nil))
	points, err := r.ScoreHistory("AAPL", 1)
	assert.NoError(t, err)
	assert.Nil(t, points)
	assert.NoError(t, r.Close())
}
