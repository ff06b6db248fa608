package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

// Chart and quote periods.
const (
	Period1D = "1d"
	Period1W = "1w"
	Period1M = "1m"
)

var (
	ErrNoPriceData   = errors.New("no price data")
	ErrInvalidPeriod = errors.New("invalid period")
)

// QuotePeriods are the trailing changes reported by Quote, shortest first.
var QuotePeriods = []string{Period1D, Period1W, Period1M}

var periodDays = map[string]int{
	Period1D: 1,
	Period1W: 7,
	Period1M: 30,
}

// slack covers weekends and holidays before the oldest anchor date.
const slackDays = 10

// anchorIndex returns the index of the last bar dated on or before
// last-days, or -1 when the history does not reach back that far.
func anchorIndex(dates []time.Time, days int) int {
	if len(dates) == 0 {
		return -1
	}
	cutoff := dates[len(dates)-1].AddDate(0, 0, -days)
	idx := -1
	for i, d := range dates {
		if d.After(cutoff) {
			break
		}
		idx = i
	}
	return idx
}

// BuildQuote derives the latest price and its trailing changes from s.
func BuildQuote(s model.PriceSeries) (model.Quote, error) {
	if s.Empty() {
		return model.Quote{}, fmt.Errorf("%w for %s", ErrNoPriceData, s.Symbol)
	}
	closes := s.Closes()
	dates := s.Dates()
	price := closes[len(closes)-1]

	q := model.Quote{
		Ticker: s.Symbol,
		Price:  calculator.Round2(price),
		AsOf:   model.FormatDate(s.Last()),
		Source: s.Source,
	}
	for _, period := range QuotePeriods {
		i := anchorIndex(dates, periodDays[period])
		if i < 0 || i == len(closes)-1 {
			continue
		}
		base := closes[i]
		q.Changes = append(q.Changes, model.PriceChange{
			Period:  period,
			Base:    calculator.Round2(base),
			Change:  calculator.Round2(price - base),
			Percent: calculator.Round2((price - base) / base * 100),
		})
	}
	return q, nil
}

// BuildChart returns the closes of s from the period's anchor bar to the
// latest bar. The first point is the base of the matching quote change.
func BuildChart(s model.PriceSeries, period string) (model.Chart, error) {
	days, ok := periodDays[period]
	if !ok {
		return model.Chart{}, fmt.Errorf("%w %q, use 1d, 1w or 1m", ErrInvalidPeriod, period)
	}
	if s.Empty() {
		return model.Chart{}, fmt.Errorf("%w for %s", ErrNoPriceData, s.Symbol)
	}
	dates := s.Dates()
	closes := s.Closes()
	from := max(anchorIndex(dates, days), 0)

	chart := model.Chart{Ticker: s.Symbol, Period: period, Source: s.Source}
	for i := from; i < len(dates); i++ {
		chart.Points = append(chart.Points, model.ChartPoint{
			Date:   model.FormatDate(dates[i]),
			Price:  calculator.Round2(closes[i]),
			Volume: s.Bars[i].Volume,
		})
	}
	return chart, nil
}

// Quote fetches enough history for every quote period and builds the quote.
func (p *Provider) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	lookback := time.Duration(periodDays[Period1M]+slackDays) * 24 * time.Hour
	s, err := p.History(ctx, symbol, lookback)
	if err != nil {
		return model.Quote{}, err
	}
	return BuildQuote(s)
}

// Chart fetches the history covering period and builds the chart.
func (p *Provider) Chart(ctx context.Context, symbol, period string) (model.Chart, error) {
	days, ok := periodDays[period]
	if !ok {
		return model.Chart{}, fmt.Errorf("%w %q, use 1d, 1w or 1m", ErrInvalidPeriod, period)
	}
	s, err := p.History(ctx, symbol, time.Duration(days+slackDays)*24*time.Hour)
	if err != nil {
		return model.Chart{}, err
	}
	return BuildChart(s, period)
}
