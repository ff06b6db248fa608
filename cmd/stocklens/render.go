package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"StockLens/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Italic(true)

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)
)

func sentimentStyle(s model.Sentiment) lipgloss.Style {
	switch s {
	case model.SentimentPositive:
		return positiveStyle
	case model.SentimentNegative:
		return negativeStyle
	default:
		return neutralStyle
	}
}

// render writes v in the requested output format.
func render(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		_, err := fmt.Fprintln(w, renderText(v))
		return err
	}
}

func renderText(v any) string {
	switch t := v.(type) {
	case model.EventAnalysisResult:
		return analysisCard(t)
	case []model.EventAnalysisResult:
		if len(t) == 0 {
			return mutedStyle.Render("no analyses")
		}
		cards := make([]string, len(t))
		for i, r := range t {
			cards[i] = analysisCard(r)
		}
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	case []model.UpcomingEvent:
		return upcomingTable(t)
	case model.Quote:
		return quoteCard(t)
	case model.Chart:
		return chartTable(t)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func analysisCard(r model.EventAnalysisResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  %s  %s", r.Ticker, r.Event, dateOnly(r.Date))))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("CAR %s   volatility %.2fx   %s\n",
		sentimentStyle(r.Sentiment).Render(fmt.Sprintf("%+.2f%%", r.CAR)),
		r.VolatilityChange,
		sentimentStyle(r.Sentiment).Render(string(r.Sentiment))))
	b.WriteString(r.Conclusion)
	if r.Synthetic {
		b.WriteString("\n" + mutedStyle.Render("synthetic result"))
	}
	return cardStyle.Render(b.String())
}

func upcomingTable(events []model.UpcomingEvent) string {
	if len(events) == 0 {
		return mutedStyle.Render("no upcoming events")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s upcoming events", events[0].Ticker)))
	for _, e := range events {
		line := fmt.Sprintf("\n%-10s  %-22s  %s", dateOnly(e.Date), e.Type, e.ExpectedImpact)
		if e.Synthetic {
			line += "  " + mutedStyle.Render("(synthetic)")
		}
		b.WriteString(line)
	}
	return cardStyle.Render(b.String())
}

func dateOnly(iso string) string {
	if len(iso) >= 10 {
		return iso[:10]
	}
	return iso
}

func changeStyle(v float64) lipgloss.Style {
	switch {
	case v > 0:
		return positiveStyle
	case v < 0:
		return negativeStyle
	default:
		return neutralStyle
	}
}

func quoteCard(q model.Quote) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  %.2f", q.Ticker, q.Price)))
	b.WriteString("  " + mutedStyle.Render(fmt.Sprintf("close %s via %s", dateOnly(q.AsOf), q.Source)))
	for _, c := range q.Changes {
		b.WriteString(fmt.Sprintf("\n%-3s %s", c.Period,
			changeStyle(c.Change).Render(fmt.Sprintf("%+.2f (%+.2f%%)", c.Change, c.Percent))))
	}
	return cardStyle.Render(b.String())
}

// chartWidth is the longest bar drawn for a chart row.
const chartWidth = 30

func chartTable(c model.Chart) string {
	if len(c.Points) == 0 {
		return mutedStyle.Render("no chart data")
	}
	lo, hi := c.Points[0].Price, c.Points[0].Price
	for _, p := range c.Points {
		lo = min(lo, p.Price)
		hi = max(hi, p.Price)
	}
	first := c.Points[0].Price

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", c.Ticker, c.Period)))
	for _, p := range c.Points {
		width := chartWidth
		if hi > lo {
			width = 1 + int((p.Price-lo)/(hi-lo)*float64(chartWidth-1))
		}
		bar := changeStyle(p.Price - first).Render(strings.Repeat("█", width))
		b.WriteString(fmt.Sprintf("\n%s  %10.2f  %12.0f  %s", dateOnly(p.Date), p.Price, p.Volume, bar))
	}
	return cardStyle.Render(b.String())
}
