package notifier

import (
	"fmt"
	"html"
	"strings"

	"StockLens/internal/model"
)

func sentimentIcon(s model.Sentiment) string {
	switch s {
	case model.SentimentPositive:
		return "🟢"
	case model.SentimentNegative:
		return "🔴"
	default:
		return "⚪"
	}
}

func dateOnly(iso string) string {
	if len(iso) >= 10 {
		return iso[:10]
	}
	return iso
}

func writeAnalysis(b *strings.Builder, res model.EventAnalysisResult) {
	b.WriteString(fmt.Sprintf("%s <b>%s</b> | %s\n", sentimentIcon(res.Sentiment),
		html.EscapeString(res.Event), dateOnly(res.Date)))
	b.WriteString(fmt.Sprintf("   CAR: %+.2f%% | 波动比: %.2fx\n", res.CAR, res.VolatilityChange))
	b.WriteString(fmt.Sprintf("   %s", html.EscapeString(res.Conclusion)))
	if res.Synthetic {
		b.WriteString(" <i>(synthetic)</i>")
	}
	b.WriteString("\n")
}

// FormatAnalysis formats a single event analysis into a Telegram message.
func FormatAnalysis(res model.EventAnalysisResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s 事件分析</b>\n\n", html.EscapeString(res.Ticker)))
	writeAnalysis(&b, res)
	return b.String()
}

// FormatPastEvents formats the analyses of a ticker's recent events.
func FormatPastEvents(ticker string, events []model.EventAnalysisResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>%s 历史事件</b>\n\n", html.EscapeString(ticker)))
	if len(events) == 0 {
		b.WriteString("暂无数据\n")
		return b.String()
	}
	for _, e := range events {
		writeAnalysis(&b, e)
	}
	return b.String()
}

// FormatUpcoming formats the forecast of upcoming events.
func FormatUpcoming(ticker string, events []model.UpcomingEvent) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>%s 即将发生</b>\n\n", html.EscapeString(ticker)))
	if len(events) == 0 {
		b.WriteString("暂无数据\n")
		return b.String()
	}
	for _, e := range events {
		b.WriteString(fmt.Sprintf("• %s %s (影响: %s)", dateOnly(e.Date), html.EscapeString(e.Type), e.ExpectedImpact))
		if e.Synthetic {
			b.WriteString(" <i>(synthetic)</i>")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func changeIcon(v float64) string {
	switch {
	case v > 0:
		return "🔺"
	case v < 0:
		return "🔻"
	default:
		return "▫️"
	}
}

// FormatQuote formats the latest price and its trailing changes.
func FormatQuote(q model.Quote) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("💹 <b>%s 行情</b> | %s\n\n", html.EscapeString(q.Ticker), dateOnly(q.AsOf)))
	b.WriteString(fmt.Sprintf("收盘价: <b>%.2f</b>\n", q.Price))
	for _, c := range q.Changes {
		b.WriteString(fmt.Sprintf("%s %s: %+.2f (%+.2f%%)\n", changeIcon(c.Change), c.Period, c.Change, c.Percent))
	}
	return b.String()
}

// FormatDigest joins per-ticker sections for the scheduled refresh.
func FormatDigest(sections []string) string {
	var b strings.Builder
	b.WriteString("🗞 <b>StockLens 每日摘要</b>\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(s)
	}
	return b.String()
}
