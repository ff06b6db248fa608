package collector

import (
	"sort"
	"time"

	"StockLens/internal/model"
)

// DayOf truncates t to midnight UTC of its calendar date.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeBars converts bars to UTC midnight dates, sorts them, keeps the
// last bar of each day, drops non-positive closes and slices to [start, end].
// Bar times must already be in the exchange's local zone.
func NormalizeBars(bars []model.OHLCV, start, end time.Time) []model.OHLCV {
	if len(bars) == 0 {
		return nil
	}

	dated := make([]model.OHLCV, 0, len(bars))
	for _, b := range bars {
		if b.Close > 0 {
			dated = append(dated, b)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool { return dated[i].Time.Before(dated[j].Time) })

	lo, hi := DayOf(start), DayOf(end)
	out := make([]model.OHLCV, 0, len(dated))
	for _, b := range dated {
		b.Time = DayOf(b.Time)
		if b.Time.Before(lo) || b.Time.After(hi) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
