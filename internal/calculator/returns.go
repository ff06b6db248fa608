package calculator

import (
	"sort"
	"time"

	"StockLens/internal/model"
)

// ReturnPoint is a simple return dated at the later of its two bars.
type ReturnPoint struct {
	Time  time.Time
	Value float64
}

// ReturnSeries is an ordered list of simple returns.
type ReturnSeries []ReturnPoint

// AlignedReturn pairs subject and benchmark returns on a shared date.
type AlignedReturn struct {
	Time      time.Time
	Subject   float64
	Benchmark float64
}

// Windows are the two disjoint partitions used by the market model.
type Windows struct {
	Estimation []AlignedReturn
	Event      []AlignedReturn
}

// CalculateReturns computes period-over-period simple returns from daily bars.
// A non-positive prior close leaves a gap instead of an infinite return.
func CalculateReturns(bars []model.OHLCV) ReturnSeries {
	if len(bars) < 2 {
		return nil
	}
	out := make(ReturnSeries, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		if prev <= 0 {
			continue
		}
		out = append(out, ReturnPoint{
			Time:  bars[i].Time,
			Value: (bars[i].Close - prev) / prev,
		})
	}
	return out
}

// Align keeps only the dates present in both series, in ascending order.
func Align(subject, benchmark ReturnSeries) []AlignedReturn {
	bench := make(map[time.Time]float64, len(benchmark))
	for _, p := range benchmark {
		bench[p.Time] = p.Value
	}
	out := make([]AlignedReturn, 0, min(len(subject), len(benchmark)))
	for _, p := range subject {
		b, ok := bench[p.Time]
		if !ok {
			continue
		}
		out = append(out, AlignedReturn{Time: p.Time, Subject: p.Value, Benchmark: b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

// SplitWindows partitions aligned returns around eventDate.
// Estimation holds entries strictly before eventDate-before days; Event holds
// entries within [eventDate-before, eventDate+after] days inclusive.
func SplitWindows(aligned []AlignedReturn, eventDate time.Time, before, after int) Windows {
	cutoff := eventDate.AddDate(0, 0, -before)
	upper := eventDate.AddDate(0, 0, after)

	var w Windows
	for _, a := range aligned {
		switch {
		case a.Time.Before(cutoff):
			w.Estimation = append(w.Estimation, a)
		case !a.Time.After(upper):
			w.Event = append(w.Event, a)
		}
	}
	return w
}

func subjectReturns(rows []AlignedReturn) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Subject
	}
	return out
}

func benchmarkReturns(rows []AlignedReturn) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Benchmark
	}
	return out
}
