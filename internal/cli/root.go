// Package cli provides the command-line interface of StockScout.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"StockScout/internal/config"
	"StockScout/internal/logging"
)

// Version information
const Version = "0.3.0"

// DefaultConfigPath is used when neither --config nor CONFIG_PATH is set.
const DefaultConfigPath = "configs/config.yaml"

// NewRootCmd creates the root command for the CLI.
func NewRootCmd() *cobra.Command {
	app := &App{}

	rootCmd := &cobra.Command{
		Use:   "scout",
		Short: "StockScout - technical confidence scores for a stock watchlist",
		Long: `StockScout fetches daily price history for a watchlist of tickers,
computes technical indicators and scores each ticker from 0 to 100.

Results are published as a JSON document, recorded in SQLite and
optionally pushed to a Telegram chat.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = os.Getenv("CONFIG_PATH")
			}
			if path == "" {
				path = DefaultConfigPath
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}

			logger := logging.NewLogger(logConfig(cfg))
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logger = logger.Level(zerolog.DebugLevel)
			}
			*app = *NewApp(cfg, logger)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default: $CONFIG_PATH or "+DefaultConfigPath+")")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newUpdateCmd(app))
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newDaemonCmd(app))
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scout %s\n", Version)
		},
	}
}
