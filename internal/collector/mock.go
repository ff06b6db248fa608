package collector

import (
	"context"
	"time"

	"StockLens/internal/model"
)

// MockSource returns controllable fixed data for development and testing.
// Bars, when set, are served per symbol; otherwise a gentle synthetic drift
// around Price is generated for every weekday in the range.
type MockSource struct {
	SourceName string
	Price      float64
	Bars       map[string][]model.OHLCV
	Status     FetchStatus
	Calls      int
}

func (m *MockSource) Name() string {
	if m.SourceName == "" {
		return "mock"
	}
	return m.SourceName
}

func (m *MockSource) FetchDaily(_ context.Context, symbol string, start, end time.Time) FetchResult {
	m.Calls++
	if m.Status != StatusSuccess {
		return failure(m.Status, nil)
	}
	if m.Bars != nil {
		bars, ok := m.Bars[symbol]
		if !ok {
			return failure(StatusNotFound, nil)
		}
		return success(model.PriceSeries{Symbol: symbol, Source: m.Name(), Bars: bars})
	}
	return success(model.PriceSeries{Symbol: symbol, Source: m.Name(), Bars: generateMockBars(m.Price, start, end)})
}

func generateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	var bars []model.OHLCV
	i := 0
	for d := DayOf(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i%20-10)*0.001)
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}
