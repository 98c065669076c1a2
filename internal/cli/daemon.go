package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"StockScout/internal/scheduler"
	"StockScout/internal/server"
)

func newDaemonCmd(app *App) *cobra.Command {
	var runOnStart bool

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run scheduled updates, the HTTP API and the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := app.Config
			logger := app.Logger

			if err := app.Updater.LoadLatest(); err != nil {
				logger.Warn().Err(err).Msg("load previous results failed")
			}

			sched := scheduler.NewScheduler(ctx, app.Updater, cfg.Telegram.TopN, logger)
			if err := sched.Register(cfg.Schedule.UpdateCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			srv := server.New(server.Config{
				Addr:      cfg.Server.Addr,
				Log:       logger,
				Results:   app.Updater,
				Refresher: sched,
				Metrics:   app.Metrics.Handler(),
			})
			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			if app.Notifier != nil {
				go app.Notifier.StartPolling(ctx, sched.HandleCommand)
				logger.Info().Msg("telegram polling started")
			}

			if runOnStart || os.Getenv("RUN_ON_START") == "true" {
				logger.Info().Msg("run on start enabled, starting update now")
				sched.Trigger()
			}

			logger.Info().Str("version", Version).Msg("StockScout is running, press Ctrl+C to stop")

			var runErr error
			select {
			case <-ctx.Done():
				logger.Info().Msg("shutdown signal received, stopping")
			case runErr = <-errCh:
				logger.Error().Err(runErr).Msg("HTTP server failed")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("HTTP server shutdown failed")
			}
			return runErr
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "run an update immediately after startup")
	return cmd
}
