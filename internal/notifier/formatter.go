package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"TradeTrends/internal/model"
	"TradeTrends/internal/pipeline"
)

// FormatDigest formats a pipeline report into a Telegram message.
func FormatDigest(rep *pipeline.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>%s</b> | %d-year forecast\n", html.EscapeString(rep.Symbol), rep.Years))
	if !rep.Range.Start.IsZero() {
		b.WriteString(fmt.Sprintf("Window: %s → %s\n", rep.Range.Start.Format(time.DateOnly), rep.Range.End.Format(time.DateOnly)))
	}
	b.WriteString("\n")

	if s := rep.Summary; s != nil {
		b.WriteString(fmt.Sprintf("Last close: %.2f (%+.1f%% over %d sessions)\n", s.Last, s.ChangePct, s.Rows))
		b.WriteString(fmt.Sprintf("Range: %.2f – %.2f\n", s.Low, s.High))
		if s.SMA50.Valid {
			b.WriteString(fmt.Sprintf("SMA50: %.2f", s.SMA50.Float64))
			if s.SMA200.Valid {
				b.WriteString(fmt.Sprintf(" | SMA200: %.2f", s.SMA200.Float64))
			}
			b.WriteString("\n")
		}
		if s.RSI14.Valid {
			b.WriteString(fmt.Sprintf("RSI14: %.0f\n", s.RSI14.Float64))
		}
	}

	if rep.Forecast != nil {
		if last, ok := rep.Forecast.Last(); ok {
			b.WriteString(fmt.Sprintf("\n🔮 <b>Forecast %s:</b> %.2f\n", last.DS.Format(time.DateOnly), last.YHat))
			b.WriteString(fmt.Sprintf("   %.0f%% band: %.2f – %.2f\n", rep.Forecast.IntervalWidth*100, last.YHatLower, last.YHatUpper))
		}
	} else if rep.ForecastError != "" {
		b.WriteString(fmt.Sprintf("\n⚠️ Forecast unavailable: %s\n", html.EscapeString(rep.ForecastError)))
	}

	if snap := rep.Snapshot; snap != nil && len(snap.Bars) > 0 {
		bar := snap.Bars[len(snap.Bars)-1]
		state := "closed"
		if snap.MarketOpen {
			state = "open"
		}
		if bar.Close.Valid {
			b.WriteString(fmt.Sprintf("\nLatest: %.2f (%s, market %s)\n", bar.Close.Float64, bar.Time.Format(time.DateOnly), state))
		}
	}

	if len(rep.News) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatNews(rep.Symbol, rep.News))
	}

	for _, w := range rep.Warnings {
		b.WriteString(fmt.Sprintf("\n⚠️ %s", html.EscapeString(w)))
	}
	return b.String()
}

// FormatNews renders headlines as cards with title, source, date and link.
func FormatNews(symbol string, items []model.NewsItem) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📰 <b>Latest news: %s</b>\n", html.EscapeString(symbol)))
	if len(items) == 0 {
		b.WriteString("No headlines found.\n")
		return b.String()
	}
	for _, it := range items {
		b.WriteString(fmt.Sprintf("\n• <a href=\"%s\">%s</a>\n", html.EscapeString(it.URL), html.EscapeString(it.Title)))
		meta := it.SourceName
		if !it.PublishedAt.IsZero() {
			meta += " · " + it.PublishedAt.Format("2006-01-02 15:04")
		}
		if meta != "" {
			b.WriteString(fmt.Sprintf("  <i>%s</i>\n", html.EscapeString(meta)))
		}
	}
	return b.String()
}

// FormatPresets lists the preset tickers.
func FormatPresets() string {
	var b strings.Builder
	b.WriteString("⭐ <b>Popular stocks</b>\n\n")
	for _, p := range model.Presets {
		b.WriteString(fmt.Sprintf("%s: <code>%s</code>\n", html.EscapeString(p.Name), p.Symbol))
	}
	return b.String()
}

// FormatRuns lists recent pipeline runs.
func FormatRuns(runs []model.RunRecord) string {
	if len(runs) == 0 {
		return "No runs recorded yet."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent runs</b>\n\n")
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("%s %s %dy %s", r.CreatedAt.Format("01-02 15:04"), html.EscapeString(r.Symbol), r.Years, r.Status))
		if r.Status == model.RunOK {
			b.WriteString(fmt.Sprintf(" → %.2f", r.LastYHat))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatFailure reports a failed run. subject may be empty.
func FormatFailure(subject string, err error) string {
	msg := html.EscapeString(err.Error())
	if subject != "" {
		msg = html.EscapeString(subject) + ": " + msg
	}
	return fmt.Sprintf("❌ %s (%s)", msg, model.Kind(err))
}

// HelpText lists the supported commands.
func HelpText() string {
	return "Available commands:\n" +
		"• /forecast &lt;symbol|preset&gt; [years]\n" +
		"• /news &lt;symbol&gt;\n" +
		"• /presets\n" +
		"• /runs"
}
