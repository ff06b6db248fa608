package analyzer

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"StockLens/internal/calculator"
	"StockLens/internal/collector"
	"StockLens/internal/model"
	"StockLens/internal/strategy"
)

// QuarterOffsets are the days before now at which trailing quarterly
// reports are assumed to have happened.
var QuarterOffsets = []int{45, 135, 225, 315}

var mockNarratives = map[model.Sentiment][]string{
	model.SentimentPositive: {
		"Strong earnings beat expectations, driving positive market reaction.",
		"Market responded positively to new product announcement.",
		"Raised full-year guidance lifted the stock well above the market.",
	},
	model.SentimentNegative: {
		"Guidance miss led to negative sentiment despite revenue beat.",
		"Margin pressure weighed on the stock after the report.",
		"Weak forward outlook triggered a sell-off relative to the market.",
	},
	model.SentimentNeutral: {
		"Results landed in line with expectations; the market barely moved.",
		"Mixed quarter with offsetting beats and misses left the stock flat.",
	},
}

// tickerSeed derives a stable seed from the upper-cased ticker.
func tickerSeed(ticker string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToUpper(strings.TrimSpace(ticker))))
	return int64(h.Sum64())
}

func quarterLabel(t time.Time) string {
	return fmt.Sprintf("Q%d %d Earnings", (int(t.Month())-1)/3+1, t.Year())
}

// MockPastEvents generates reproducible synthetic past events for ticker.
// The same ticker always yields the same CAR, volatility and narrative.
func MockPastEvents(ticker string, now time.Time) []model.EventAnalysisResult {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	rng := rand.New(rand.NewSource(tickerSeed(ticker)))
	today := collector.DayOf(now)

	events := make([]model.EventAnalysisResult, 0, len(QuarterOffsets))
	for _, offset := range QuarterOffsets {
		car := calculator.Round2(rng.Float64()*16 - 8)
		vol := calculator.Round2(0.8 + rng.Float64()*1.2)
		sentiment := strategy.Classify(car)
		options := mockNarratives[sentiment]
		narrative := options[rng.Intn(len(options))]

		date := today.AddDate(0, 0, -offset)
		events = append(events, model.EventAnalysisResult{
			Ticker:           ticker,
			Event:            quarterLabel(date),
			Date:             model.FormatDate(date),
			CAR:              car,
			VolatilityChange: vol,
			Sentiment:        sentiment,
			Conclusion:       narrative,
			Synthetic:        true,
		})
	}
	return events
}

// MockUpcomingEvents returns the fixed-shape synthetic forecast.
func MockUpcomingEvents(ticker string, now time.Time) []model.UpcomingEvent {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	today := collector.DayOf(now)
	return []model.UpcomingEvent{
		{
			Ticker:         ticker,
			Type:           model.EventEarningsReport,
			Date:           model.FormatDate(today.AddDate(0, 0, 30)),
			ExpectedImpact: strategy.ExpectedImpact(model.EventEarningsReport),
			Synthetic:      true,
		},
		{
			Ticker:         ticker,
			Type:           model.EventProductAnnounce,
			Date:           model.FormatDate(today.AddDate(0, 0, 15)),
			ExpectedImpact: strategy.ExpectedImpact(model.EventProductAnnounce),
			Synthetic:      true,
		},
	}
}
