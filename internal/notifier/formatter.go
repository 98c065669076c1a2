package notifier

import (
	"fmt"
	"html"
	"strings"

	"StockScout/internal/model"
	"StockScout/internal/recorder"
	"StockScout/internal/report"
)

// FormatRunSummary formats the top n results of a run into a Telegram message.
func FormatRunSummary(doc *model.Document, run *recorder.RunRecord, n int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>StockScout update</b> | %s\n", html.EscapeString(doc.LastUpdated)))
	if run != nil {
		b.WriteString(fmt.Sprintf("Analyzed: %d | Skipped: %d\n", run.Analyzed, run.Failed))
	}
	b.WriteString("\n")
	b.WriteString(FormatTop(doc, n))
	return b.String()
}

// FormatTop lists the n highest-scoring results.
func FormatTop(doc *model.Document, n int) string {
	top := report.Top(doc, n)
	if len(top) == 0 {
		return "No results published yet."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏆 <b>Top %d</b>\n", len(top)))
	for i, s := range top {
		b.WriteString(fmt.Sprintf("%d. <b>%s</b> (%s) %.1f | %.2f (%+.2f%%)\n",
			i+1, html.EscapeString(s.Ticker), html.EscapeString(s.Region),
			s.ConfidenceScore, s.CurrentPrice, s.PriceChangePercent))
	}
	return b.String()
}

// FormatStock renders the full analysis of a single result.
func FormatStock(s model.AnalysisResult) string {
	var b strings.Builder
	c := s.ScoreComponents

	b.WriteString(fmt.Sprintf("📈 <b>%s</b> %s (%s)\n\n",
		html.EscapeString(s.Ticker), html.EscapeString(s.CompanyName), html.EscapeString(s.Region)))
	b.WriteString(fmt.Sprintf("Price: %.2f (%+.2f, %+.2f%%)\n", s.CurrentPrice, s.PriceChange, s.PriceChangePercent))
	b.WriteString(fmt.Sprintf("Confidence: <b>%.1f</b>/100\n\n", s.ConfidenceScore))

	b.WriteString("<b>Components:</b>\n")
	b.WriteString(fmt.Sprintf("  Momentum: %.0f/30\n", c.PriceMomentum))
	b.WriteString(fmt.Sprintf("  Technical: %.0f/25\n", c.TechnicalStrength))
	b.WriteString(fmt.Sprintf("  Volume: %.0f/20\n", c.VolumeConfirmation))
	b.WriteString(fmt.Sprintf("  Trend: %.0f/15\n", c.TrendQuality))
	b.WriteString(fmt.Sprintf("  Risk: %.0f/10\n\n", c.RiskAdjustment))

	ti := s.TechnicalIndicators
	if ti.RSI != nil {
		b.WriteString(fmt.Sprintf("RSI: %.1f\n", *ti.RSI))
	}
	if ti.SMA20 != nil && ti.SMA50 != nil {
		b.WriteString(fmt.Sprintf("SMA20: %.2f | SMA50: %.2f\n", *ti.SMA20, *ti.SMA50))
	}
	if ti.Support != nil && ti.Resistance != nil {
		b.WriteString(fmt.Sprintf("Support: %.2f | Resistance: %.2f\n", *ti.Support, *ti.Resistance))
	}
	b.WriteString("\n")
	b.WriteString(html.EscapeString(s.Analysis))
	return b.String()
}

// FormatHistory renders recorded scores of ticker, newest first.
func FormatHistory(ticker string, points []recorder.ScorePoint) string {
	if len(points) == 0 {
		return fmt.Sprintf("No recorded history for %s.", html.EscapeString(ticker))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🕘 <b>%s history</b>\n", html.EscapeString(ticker)))
	for _, p := range points {
		b.WriteString(fmt.Sprintf("%s  %.1f  @ %.2f\n", p.RecordedAt.Format("2006-01-02"), p.Score, p.Price))
	}
	return b.String()
}

// FormatHelp lists the supported bot commands.
func FormatHelp() string {
	return "Available commands:\n" +
		"• /top – highest confidence scores\n" +
		"• /stock TICKER – full analysis of one ticker\n" +
		"• /history TICKER – recorded scores\n" +
		"• /refresh – run an update now"
}
