package cli

import (
	"github.com/rs/zerolog"

	"StockScout/internal/collector"
	"StockScout/internal/config"
	"StockScout/internal/logging"
	"StockScout/internal/metrics"
	"StockScout/internal/notifier"
	"StockScout/internal/recorder"
	"StockScout/internal/updater"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
	Recorder recorder.Recorder
	Notifier *notifier.TelegramNotifier // nil when Telegram is not configured
	Updater  *updater.Updater
}

// NewApp wires the update pipeline from cfg.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.NewMetrics(),
	}

	fetcher := NewFetcher(cfg)
	logger.Info().
		Str("provider", cfg.DataSource.Provider).
		Bool("synthetic_fallback", cfg.DataSource.AllowSynthetic).
		Msg("data source configured")
	col := collector.NewCollector(fetcher, cfg.DataSource.HistoryPeriod,
		cfg.DataSource.RequestsPerSecond, cfg.DataSource.MaxRetries, logger)

	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			logger.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			app.Recorder = recorder.NewNoopRecorder()
		} else {
			app.Recorder = sr
		}
	} else {
		app.Recorder = recorder.NewNoopRecorder()
	}

	var n updater.Notifier
	if cfg.TelegramEnabled() {
		app.Notifier = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID,
			cfg.Proxy, cfg.Telegram.TopN, logger)
		n = app.Notifier
	} else {
		logger.Debug().Msg("telegram not configured, notifications disabled")
	}

	app.Updater = updater.New(col, updater.Options{
		Targets:       cfg.Targets(),
		OutputPath:    cfg.Output.Path,
		Workers:       cfg.Analysis.Workers,
		StrictHistory: cfg.Analysis.StrictHistory,
	}, app.Recorder, app.Metrics, n, logger)
	return app
}

// NewFetcher builds the history fetcher chain for the configured provider.
func NewFetcher(cfg *config.Config) collector.Fetcher {
	var primary collector.Fetcher
	switch cfg.DataSource.Provider {
	case config.ProviderSynthetic:
		return collector.NewSyntheticFetcher()
	case config.ProviderREST:
		primary = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	default:
		primary = collector.NewYahooFetcher(cfg.Proxy)
	}
	if cfg.DataSource.AllowSynthetic {
		return collector.NewFallbackFetcher(primary, collector.NewSyntheticFetcher())
	}
	return primary
}

// Close releases the recorder.
func (a *App) Close() error {
	if a.Recorder == nil {
		return nil
	}
	return a.Recorder.Close()
}

func logConfig(cfg *config.Config) logging.LogConfig {
	lc := logging.DefaultLogConfig()
	lc.Level = cfg.Log.Level
	lc.Format = cfg.Log.Format
	lc.File = cfg.Log.File
	lc.FilePath = cfg.Log.FilePath
	return lc
}
