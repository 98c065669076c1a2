package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"StockScout/internal/config"
	"StockScout/internal/model"
	"StockScout/internal/notifier"
)

func newUpdateCmd(app *App) *cobra.Command {
	var asJSON bool
	var top int

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Analyze the whole watchlist once and publish the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := app.Updater.Run(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), doc)
			}
			printTable(cmd.OutOrStdout(), doc.Stocks, top)
			fmt.Fprintf(cmd.OutOrStdout(), "\nwritten to %s\n", app.Config.Output.Path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the published document as JSON")
	cmd.Flags().IntVar(&top, "top", 0, "only print the N highest scores (0 = all)")
	return cmd
}

func newAnalyzeCmd(app *App) *cobra.Command {
	var region string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze TICKER [TICKER...]",
		Short: "Analyze tickers without publishing the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var results []model.AnalysisResult
			for _, arg := range args {
				target := resolveTarget(app.Config, strings.ToUpper(arg), region)
				res, err := app.Updater.AnalyzeTicker(cmd.Context(), target)
				if err != nil {
					app.Logger.Error().Err(err).Str("symbol", target.Ticker).Msg("analysis failed")
					continue
				}
				results = append(results, *res)
			}
			if len(results) == 0 {
				return errors.New("no ticker could be analyzed")
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			for i, res := range results {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				fmt.Fprintln(cmd.OutOrStdout(), plain(notifier.FormatStock(res)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&region, "region", "US", "region label for tickers outside the watchlist")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history TICKER",
		Short: "Show recorded confidence scores of a ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticker := strings.ToUpper(args[0])
			points, err := app.Updater.History(ticker, limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), plain(notifier.FormatHistory(ticker, points)))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	return cmd
}

// resolveTarget labels ticker from the watchlist, falling back to region.
func resolveTarget(cfg *config.Config, ticker, region string) config.Target {
	if r, ok := cfg.RegionOf(ticker); ok {
		region = r
	}
	return config.Target{Region: region, Ticker: ticker, DisplayName: cfg.DisplayNames[ticker]}
}

func printTable(w io.Writer, stocks []model.AnalysisResult, top int) {
	if top > 0 && top < len(stocks) {
		stocks = stocks[:top]
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTICKER\tREGION\tSCORE\tPRICE\tCHANGE%\tSOURCE")
	for i, s := range stocks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\t%.2f\t%+.2f\t%s\n",
			i+1, s.Ticker, s.Region, s.ConfidenceScore, s.CurrentPrice, s.PriceChangePercent, s.DataSource)
	}
	tw.Flush()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var htmlReplacer = strings.NewReplacer("<b>", "", "</b>", "", "&lt;", "<", "&gt;", ">", "&amp;", "&", "&#34;", `"`, "&#39;", "'")

// plain strips the Telegram HTML markup of a formatted message.
func plain(s string) string {
	return htmlReplacer.Replace(s)
}
