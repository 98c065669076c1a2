package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"StockScout/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets the API read while an update run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			analyzed    INTEGER NOT NULL,
			failed      INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS results (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id              TEXT NOT NULL REFERENCES runs(id),
			recorded_at         INTEGER NOT NULL,
			ticker              TEXT NOT NULL,
			region              TEXT,
			current_price       REAL,
			price_change_pct    REAL,
			volume              INTEGER,
			confidence_score    REAL,
			price_momentum      REAL,
			technical_strength  REAL,
			volume_confirmation REAL,
			trend_quality       REAL,
			risk_adjustment     REAL,
			data_source         TEXT,
			analysis            TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_ticker ON results(ticker, recorded_at)`,

		`CREATE TABLE IF NOT EXISTS failures (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id  TEXT NOT NULL REFERENCES runs(id),
			ticker  TEXT NOT NULL,
			region  TEXT,
			reason  TEXT,
			error   TEXT
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores a run with its results and failures in one transaction.
func (r *SQLiteRecorder) RecordRun(run *RunRecord, results []model.AnalysisResult, failures []Failure) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs (id, started_at, finished_at, analyzed, failed)
		VALUES (?,?,?,?,?)`,
		run.ID, run.StartedAt.Unix(), run.FinishedAt.Unix(), run.Analyzed, run.Failed,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	recordedAt := run.FinishedAt.Unix()
	for _, res := range results {
		c := res.ScoreComponents
		if _, err := tx.Exec(`INSERT INTO results
			(run_id, recorded_at, ticker, region, current_price, price_change_pct, volume,
			 confidence_score, price_momentum, technical_strength, volume_confirmation,
			 trend_quality, risk_adjustment, data_source, analysis)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			run.ID, recordedAt, res.Ticker, res.Region, res.CurrentPrice, res.PriceChangePercent, res.Volume,
			res.ConfidenceScore, c.PriceMomentum, c.TechnicalStrength, c.VolumeConfirmation,
			c.TrendQuality, c.RiskAdjustment, res.DataSource, res.Analysis,
		); err != nil {
			return fmt.Errorf("insert result %s: %w", res.Ticker, err)
		}
	}

	for _, f := range failures {
		if _, err := tx.Exec(`INSERT INTO failures (run_id, ticker, region, reason, error)
			VALUES (?,?,?,?,?)`,
			run.ID, f.Ticker, f.Region, f.Reason, f.Error,
		); err != nil {
			return fmt.Errorf("insert failure %s: %w", f.Ticker, err)
		}
	}

	return tx.Commit()
}

// ScoreHistory returns up to limit recorded scores of ticker, newest first.
func (r *SQLiteRecorder) ScoreHistory(ticker string, limit int) ([]ScorePoint, error) {
	rows, err := r.db.Query(`SELECT run_id, recorded_at, confidence_score, current_price
		FROM results WHERE ticker = ? ORDER BY recorded_at DESC, id DESC LIMIT ?`, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var points []ScorePoint
	for rows.Next() {
		var p ScorePoint
		var ts int64
		if err := rows.Scan(&p.RunID, &ts, &p.Score, &p.Price); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		p.RecordedAt = time.Unix(ts, 0).UTC()
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
