// Package updater runs the watchlist update: fetch, analyze, publish, record, notify.
package updater

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"StockScout/internal/analyzer"
	"StockScout/internal/config"
	"StockScout/internal/logging"
	"StockScout/internal/metrics"
	"StockScout/internal/model"
	"StockScout/internal/recorder"
	"StockScout/internal/report"
)

// ErrNoResults is returned when every target of a run failed.
var ErrNoResults = errors.New("no symbols analyzed")

// Catalyst labels what drives every published score.
const Catalyst = "Technical momentum and volume analysis"

// Failure reasons.
const (
	ReasonInsufficientHistory = "insufficient_history"
	ReasonInvalidBar          = "invalid_bar"
	ReasonFetch               = "fetch"
	ReasonCanceled            = "canceled"
)

// HistorySource supplies normalized daily bars. *collector.Collector implements it.
type HistorySource interface {
	History(ctx context.Context, symbol string) ([]model.Bar, string, error)
	CompanyName(symbol string) (string, bool)
}

// Notifier is told about every published document.
type Notifier interface {
	NotifyRun(ctx context.Context, doc *model.Document, run *recorder.RunRecord) error
}

// Options configures an Updater.
type Options struct {
	Targets       []config.Target
	OutputPath    string
	Workers       int
	StrictHistory bool
}

// Updater analyzes the watchlist and keeps the latest published document.
type Updater struct {
	source   HistorySource
	analyzer *analyzer.Analyzer
	recorder recorder.Recorder
	metrics  *metrics.Metrics
	notifier Notifier
	logger   zerolog.Logger
	opts     Options

	// Now is the clock used for run timestamps.
	Now func() time.Time

	mu     sync.RWMutex
	latest *model.Document
}

// New creates an Updater. rec and notifier may be nil.
func New(source HistorySource, opts Options, rec recorder.Recorder, m *metrics.Metrics, notifier Notifier, logger zerolog.Logger) *Updater {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &Updater{
		source:   source,
		analyzer: analyzer.New(nil),
		recorder: rec,
		metrics:  m,
		notifier: notifier,
		logger:   logger,
		opts:     opts,
		Now:      time.Now,
	}
}

// outcome is the result of one target.
type outcome struct {
	result  *model.AnalysisResult
	failure *recorder.Failure
}

// Run performs one full update and returns the published document.
// Individual failures are logged and counted; they never abort the batch.
func (u *Updater) Run(ctx context.Context) (*model.Document, error) {
	run := &recorder.RunRecord{ID: uuid.NewString(), StartedAt: u.Now()}
	logger := logging.WithRun(u.logger, run.ID)
	logger.Info().Int("targets", len(u.opts.Targets)).Msg("update started")

	outcomes := u.analyzeAll(ctx, logger)
	if err := ctx.Err(); err != nil {
		logger.Warn().Err(err).Msg("update canceled, keeping previous document")
		return nil, err
	}

	var results []model.AnalysisResult
	var failures []recorder.Failure
	for _, o := range outcomes {
		switch {
		case o.result != nil:
			results = append(results, *o.result)
			u.metrics.RecordResult(o.result.Ticker, o.result.Region, o.result.ConfidenceScore)
		case o.failure != nil:
			failures = append(failures, *o.failure)
			u.metrics.RecordFailure(o.failure.Reason)
		}
	}
	run.Analyzed = len(results)
	run.Failed = len(failures)

	if len(results) == 0 {
		logger.Error().Int("failed", run.Failed).Msg("update produced no results")
		return nil, fmt.Errorf("%w: %d of %d targets failed", ErrNoResults, run.Failed, len(u.opts.Targets))
	}

	run.FinishedAt = u.Now()
	doc := report.Build(results, run.FinishedAt)
	if err := report.Write(u.opts.OutputPath, doc); err != nil {
		return nil, fmt.Errorf("write results: %w", err)
	}
	u.setLatest(doc)
	u.metrics.RecordUpdate(run.FinishedAt.Sub(run.StartedAt), run.FinishedAt)

	if err := u.recorder.RecordRun(run, results, failures); err != nil {
		logger.Error().Err(err).Msg("record run failed")
	}
	if u.notifier != nil {
		if err := u.notifier.NotifyRun(ctx, doc, run); err != nil {
			logger.Error().Err(err).Msg("notify run failed")
		}
	}

	logger.Info().
		Int("analyzed", run.Analyzed).
		Int("failed", run.Failed).
		Dur("duration", run.FinishedAt.Sub(run.StartedAt)).
		Str("output", u.opts.OutputPath).
		Msg("update finished")
	return doc, nil
}

// analyzeAll fans the targets out over a bounded pool of workers. Outcomes
// come back in target order.
func (u *Updater) analyzeAll(ctx context.Context, logger zerolog.Logger) []outcome {
	targets := u.opts.Targets
	outcomes := make([]outcome, len(targets))
	workChan := make(chan int, len(targets))

	var wg sync.WaitGroup
	for i := 0; i < u.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workChan {
				outcomes[idx] = u.analyzeTarget(ctx, targets[idx], logger)
			}
		}()
	}

	for i := range targets {
		workChan <- i
	}
	close(workChan)
	wg.Wait()
	return outcomes
}

func (u *Updater) analyzeTarget(ctx context.Context, target config.Target, logger zerolog.Logger) outcome {
	logger = logging.WithSymbol(logger, target.Ticker)
	res, err := u.AnalyzeTicker(ctx, target)
	if err != nil {
		reason := Classify(err)
		logger.Warn().Err(err).Str("reason", reason).Msg("symbol skipped")
		return outcome{failure: &recorder.Failure{
			Ticker: target.Ticker,
			Region: target.Region,
			Reason: reason,
			Error:  err.Error(),
		}}
	}
	logger.Debug().
		Float64("score", res.ConfidenceScore).
		Str("source", res.DataSource).
		Msg("symbol analyzed")
	return outcome{result: res}
}

// AnalyzeTicker fetches and analyzes a single target.
func (u *Updater) AnalyzeTicker(ctx context.Context, target config.Target) (*model.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	bars, source, err := u.source.History(ctx, target.Ticker)
	u.metrics.ObserveFetch(time.Since(start))
	if err != nil {
		return nil, err
	}

	name := target.DisplayName
	if name == "" {
		name, _ = u.source.CompanyName(target.Ticker)
	}
	res, err := u.analyzer.Analyze(target.Ticker, bars, analyzer.Options{
		Region:        target.Region,
		CompanyName:   name,
		StrictHistory: u.opts.StrictHistory,
	})
	if err != nil {
		return nil, err
	}
	res.DataSource = source
	res.Catalyst = Catalyst
	return res, nil
}

// Classify maps an analysis error to a failure reason.
func Classify(err error) string {
	switch {
	case errors.Is(err, model.ErrInsufficientHistory):
		return ReasonInsufficientHistory
	case errors.Is(err, model.ErrInvalidBar):
		return ReasonInvalidBar
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	default:
		return ReasonFetch
	}
}

func (u *Updater) setLatest(doc *model.Document) {
	u.mu.Lock()
	u.latest = doc
	u.mu.Unlock()
}

// Latest returns the most recently published document, or nil before the first run.
func (u *Updater) Latest() *model.Document {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.latest
}

// Lookup returns the latest result for ticker.
func (u *Updater) Lookup(ticker string) (model.AnalysisResult, bool) {
	return u.Latest().Find(ticker)
}

// LoadLatest primes the in-memory document from the output file of a previous run.
func (u *Updater) LoadLatest() error {
	doc, err := report.Load(u.opts.OutputPath)
	if err != nil {
		return err
	}
	if doc.LastUpdated == "" {
		return nil
	}
	u.setLatest(doc)
	return nil
}

// History returns the recorded score history of ticker, newest first.
func (u *Updater) History(ticker string, limit int) ([]recorder.ScorePoint, error) {
	return u.recorder.ScoreHistory(ticker, limit)
}
