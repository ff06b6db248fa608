package analyzer

import (
	"context"
	"strings"
	"time"

	"StockLens/internal/cache"
	"StockLens/internal/collector"
	"StockLens/internal/logger"
	"StockLens/internal/model"
	"StockLens/internal/strategy"
)

const (
	maxPastEvents     = 4
	maxUpcomingEvents = 3
	pastLookbackDays  = 365
	upcomingHorizon   = 120
)

// pastCandidates returns event dates to analyze, newest first.
func (a *Analyzer) pastCandidates(ctx context.Context, ticker string, today time.Time) []time.Time {
	if a.calendar != nil {
		dates, err := a.calendar.Earnings(ctx, ticker, today.AddDate(0, 0, -pastLookbackDays), today)
		if err != nil {
			logger.Warn("earnings calendar for %s: %v", ticker, err)
		}
		var out []time.Time
		for i := len(dates) - 1; i >= 0 && len(out) < maxPastEvents; i-- {
			if d := collector.DayOf(dates[i].ReportDate); d.Before(today) {
				out = append(out, d)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	out := make([]time.Time, len(QuarterOffsets))
	for i, off := range QuarterOffsets {
		out[i] = today.AddDate(0, 0, -off)
	}
	return out
}

// PastEvents analyzes the ticker's recent report dates. When no price data
// is available it returns reproducible synthetic events instead.
// The load is shared by concurrent callers and cached, so it does not stop
// when one caller's context is cancelled.
func (a *Analyzer) PastEvents(ctx context.Context, ticker string) []model.EventAnalysisResult {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	v, err := cache.GetOrLoad(a.cache, cache.NamespacePastEvents, "past_events_"+ticker, a.pastTTL,
		func() (any, error) { return a.pastEvents(context.WithoutCancel(ctx), ticker), nil })
	if err != nil {
		return MockPastEvents(ticker, a.now())
	}
	return v.([]model.EventAnalysisResult)
}

func (a *Analyzer) pastEvents(ctx context.Context, ticker string) []model.EventAnalysisResult {
	now := a.now()
	today := collector.DayOf(now)
	candidates := a.pastCandidates(ctx, ticker, today)

	oldest := candidates[len(candidates)-1]
	for _, d := range candidates {
		if d.Before(oldest) {
			oldest = d
		}
	}
	start, _ := a.windows.Range(oldest)
	history, err := a.fetcher.Fetch(ctx, ticker, start, today)
	if err != nil || history.Empty() {
		logger.Info("no price history for %s, using synthetic past events", ticker)
		return MockPastEvents(ticker, now)
	}

	first := history.First()
	var events []model.EventAnalysisResult
	for _, d := range candidates {
		if d.Before(first) {
			continue
		}
		res := a.AnalyzeEvent(ctx, ticker, "", d)
		res.Event = model.EventEarningsReport
		events = append(events, res)
	}
	if len(events) == 0 {
		logger.Info("no analyzable dates for %s, using synthetic past events", ticker)
		return MockPastEvents(ticker, now)
	}
	return events
}

// UpcomingEvents lists scheduled earnings reports within the forecast
// horizon, or a synthetic forecast when none are known.
func (a *Analyzer) UpcomingEvents(ctx context.Context, ticker string) []model.UpcomingEvent {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	v, err := cache.GetOrLoad(a.cache, cache.NamespaceUpcomingEvents, "upcoming_events_"+ticker, a.nextTTL,
		func() (any, error) { return a.upcomingEvents(context.WithoutCancel(ctx), ticker), nil })
	if err != nil {
		return MockUpcomingEvents(ticker, a.now())
	}
	return v.([]model.UpcomingEvent)
}

func (a *Analyzer) upcomingEvents(ctx context.Context, ticker string) []model.UpcomingEvent {
	now := a.now()
	today := collector.DayOf(now)

	if a.calendar != nil {
		dates, err := a.calendar.Earnings(ctx, ticker, today, today.AddDate(0, 0, upcomingHorizon))
		if err != nil {
			logger.Warn("earnings calendar for %s: %v", ticker, err)
		}
		var out []model.UpcomingEvent
		for _, d := range dates {
			day := collector.DayOf(d.ReportDate)
			if !day.After(today) {
				continue
			}
			out = append(out, model.UpcomingEvent{
				Ticker:         ticker,
				Type:           model.EventEarningsReport,
				Date:           model.FormatDate(day),
				ExpectedImpact: strategy.ExpectedImpact(model.EventEarningsReport),
			})
			if len(out) == maxUpcomingEvents {
				break
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	logger.Info("no earnings calendar entries for %s, using synthetic forecast", ticker)
	return MockUpcomingEvents(ticker, now)
}
