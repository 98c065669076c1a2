package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"StockScout/internal/model"
	"StockScout/internal/notifier"
	"StockScout/internal/recorder"
)

// ErrUpdateRunning is returned when an update is requested while another is in progress.
var ErrUpdateRunning = errors.New("update already running")

// historyLimit is the number of points /history replies with.
const historyLimit = 10

// Pipeline is the update pipeline driven by the scheduler. *updater.Updater implements it.
type Pipeline interface {
	Run(ctx context.Context) (*model.Document, error)
	Latest() *model.Document
	Lookup(ticker string) (model.AnalysisResult, bool)
	History(ticker string, limit int) ([]recorder.ScorePoint, error)
}

// Scheduler runs the watchlist update on a cron schedule and on demand.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline Pipeline
	TopN     int
	Ctx      context.Context

	logger  zerolog.Logger
	running atomic.Bool

	mu      sync.Mutex // guards stopped and wg.Add
	stopped bool
	wg      sync.WaitGroup
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, p Pipeline, topN int, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Pipeline: p,
		TopN:     topN,
		Ctx:      ctx,
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}
}

// Register schedules the update job.
func (s *Scheduler) Register(updateCron string) error {
	if _, err := s.Cron.AddFunc(updateCron, s.updateTask); err != nil {
		return fmt.Errorf("register update task: %w", err)
	}
	s.logger.Info().Str("cron", updateCron).Msg("update task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running updates to finish.
// Trigger refuses new updates once Stop has begun.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	<-s.Cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info().Msg("scheduler stopped")
}

// Running reports whether an update is in progress.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// RunNow executes an update immediately. Only one update runs at a time.
func (s *Scheduler) RunNow() (*model.Document, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrUpdateRunning
	}
	defer s.running.Store(false)
	return s.Pipeline.Run(s.Ctx)
}

// Stopped reports whether Stop has been called.
func (s *Scheduler) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Trigger starts an update in the background. It returns false when one is
// already running or the scheduler is stopping.
func (s *Scheduler) Trigger() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || !s.running.CompareAndSwap(false, true) {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)
		if _, err := s.Pipeline.Run(s.Ctx); err != nil {
			s.logger.Error().Err(err).Msg("triggered update failed")
		}
	}()
	return true
}

func (s *Scheduler) updateTask() {
	s.logger.Info().Msg("running scheduled update")
	if _, err := s.RunNow(); err != nil {
		if errors.Is(err, ErrUpdateRunning) {
			s.logger.Warn().Msg("previous update still running, skipping")
			return
		}
		s.logger.Error().Err(err).Msg("scheduled update failed")
	}
}

// HandleCommand processes a bot command and returns a reply.
func (s *Scheduler) HandleCommand(_ context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// Group chats address commands as /top@BotName.
	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch cmd {
	case "/top":
		return notifier.FormatTop(s.Pipeline.Latest(), s.TopN)
	case "/stock":
		if len(fields) < 2 {
			return "Usage: /stock TICKER"
		}
		ticker := strings.ToUpper(fields[1])
		res, ok := s.Pipeline.Lookup(ticker)
		if !ok {
			return fmt.Sprintf("%s is not in the latest results.", ticker)
		}
		return notifier.FormatStock(res)
	case "/history":
		if len(fields) < 2 {
			return "Usage: /history TICKER"
		}
		ticker := strings.ToUpper(fields[1])
		points, err := s.Pipeline.History(ticker, historyLimit)
		if err != nil {
			s.logger.Error().Err(err).Str("symbol", ticker).Msg("load history failed")
			return "History is unavailable right now."
		}
		return notifier.FormatHistory(ticker, points)
	case "/refresh":
		if s.Stopped() {
			return "Shutting down, no new updates."
		}
		if !s.Trigger() {
			return "An update is already running."
		}
		return "Update started."
	default:
		return notifier.FormatHelp()
	}
}
