package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/piquette/finance-go/equity"

	"StockLens/internal/logger"
)

// EarningsDate is one scheduled or historical earnings report.
type EarningsDate struct {
	Symbol     string
	ReportDate time.Time
}

// EarningsCalendar lists earnings report dates for a symbol within [from, to].
type EarningsCalendar interface {
	Name() string
	Earnings(ctx context.Context, symbol string, from, to time.Time) ([]EarningsDate, error)
}

// sortDates orders dates ascending and removes same-day duplicates.
func sortDates(dates []EarningsDate) []EarningsDate {
	sort.Slice(dates, func(i, j int) bool { return dates[i].ReportDate.Before(dates[j].ReportDate) })
	out := dates[:0]
	for _, d := range dates {
		if n := len(out); n > 0 && out[n-1].ReportDate.Equal(d.ReportDate) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func within(t, from, to time.Time) bool {
	return !t.Before(DayOf(from)) && !t.After(DayOf(to))
}

// FinnhubCalendar reads the Finnhub earnings calendar.
type FinnhubCalendar struct {
	client *resty.Client
	token  string
}

// NewFinnhubCalendar creates a Finnhub calendar client.
func NewFinnhubCalendar(token, proxyURL string, timeout time.Duration) *FinnhubCalendar {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New().
		SetBaseURL("https://finnhub.io/api/v1").
		SetTimeout(timeout)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &FinnhubCalendar{client: client, token: token}
}

// WithBaseURL points the calendar at another endpoint, used by tests.
func (f *FinnhubCalendar) WithBaseURL(u string) *FinnhubCalendar {
	f.client.SetBaseURL(u)
	return f
}

func (f *FinnhubCalendar) Name() string { return "finnhub" }

type finnhubEarnings struct {
	EarningsCalendar []struct {
		Date   string `json:"date"`
		Symbol string `json:"symbol"`
	} `json:"earningsCalendar"`
}

func (f *FinnhubCalendar) Earnings(ctx context.Context, symbol string, from, to time.Time) ([]EarningsDate, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"from":   from.Format("2006-01-02"),
			"to":     to.Format("2006-01-02"),
			"token":  f.token,
		}).
		Get("/calendar/earnings")
	if err != nil {
		return nil, fmt.Errorf("finnhub earnings: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("finnhub earnings: status %d", resp.StatusCode())
	}

	var body finnhubEarnings
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("finnhub earnings decode: %w", err)
	}

	var out []EarningsDate
	for _, e := range body.EarningsCalendar {
		t, err := time.Parse("2006-01-02", e.Date)
		if err != nil || !within(t, from, to) {
			continue
		}
		out = append(out, EarningsDate{Symbol: symbol, ReportDate: t})
	}
	return sortDates(out), nil
}

// equityEarnings returns the earnings timestamps Yahoo publishes on a quote.
var equityEarnings = func(symbol string) ([]int64, error) {
	q, err := equity.Get(symbol)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, nil
	}
	return []int64{
		int64(q.EarningsTimestamp),
		int64(q.EarningsTimestampStart),
		int64(q.EarningsTimestampEnd),
	}, nil
}

// YahooCalendar derives report dates from the earnings window on a Yahoo quote.
// It only knows the nearest report, so it mostly serves upcoming events.
type YahooCalendar struct{}

func (YahooCalendar) Name() string { return "yahoo_equity" }

func (YahooCalendar) Earnings(ctx context.Context, symbol string, from, to time.Time) ([]EarningsDate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stamps, err := equityEarnings(symbol)
	if err != nil {
		return nil, fmt.Errorf("yahoo equity: %w", err)
	}
	var out []EarningsDate
	for _, ts := range stamps {
		if ts <= 0 {
			continue
		}
		d := DayOf(time.Unix(ts, 0).UTC())
		if within(d, from, to) {
			out = append(out, EarningsDate{Symbol: symbol, ReportDate: d})
		}
	}
	return sortDates(out), nil
}

// MultiCalendar asks calendars in order and returns the first non-empty answer.
// Errors are logged and never returned.
type MultiCalendar []EarningsCalendar

func (m MultiCalendar) Name() string { return "multi" }

func (m MultiCalendar) Earnings(ctx context.Context, symbol string, from, to time.Time) ([]EarningsDate, error) {
	for _, c := range m {
		dates, err := c.Earnings(ctx, symbol, from, to)
		if err != nil {
			logger.Warn("earnings calendar %s failed for %s: %v", c.Name(), symbol, err)
			continue
		}
		if len(dates) > 0 {
			return dates, nil
		}
	}
	return nil, nil
}
