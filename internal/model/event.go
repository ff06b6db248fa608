package model

import "time"

// Sentiment is the market reaction label derived from CAR.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ImpactLevel is the qualitative expected impact of an upcoming event.
type ImpactLevel string

const (
	ImpactHigh   ImpactLevel = "High"
	ImpactMedium ImpactLevel = "Medium"
)

// Event labels.
const (
	EventAnalysis        = "Event Analysis"
	EventEarningsReport  = "Earnings Report"
	EventProductAnnounce = "Product Announcement"
)

// DateLayout is the ISO-8601 layout used for result dates.
const DateLayout = "2006-01-02T15:04:05"

// EventAnalysisResult is the outcome of one event study.
// Synthetic is true for placeholders and generated mock results.
type EventAnalysisResult struct {
	Ticker           string    `json:"ticker" yaml:"ticker"`
	Event            string    `json:"event" yaml:"event"`
	Date             string    `json:"date" yaml:"date"`
	CAR              float64   `json:"car_0_1" yaml:"car_0_1"`
	VolatilityChange float64   `json:"volatility_change" yaml:"volatility_change"`
	Sentiment        Sentiment `json:"sentiment" yaml:"sentiment"`
	Conclusion       string    `json:"conclusion" yaml:"conclusion"`
	Synthetic        bool      `json:"synthetic" yaml:"synthetic"`
}

// UpcomingEvent is a forecast entry for a future corporate event.
type UpcomingEvent struct {
	Ticker         string      `json:"ticker" yaml:"ticker"`
	Type           string      `json:"type" yaml:"type"`
	Date           string      `json:"date" yaml:"date"`
	ExpectedImpact ImpactLevel `json:"expected_impact" yaml:"expected_impact"`
	Synthetic      bool        `json:"synthetic" yaml:"synthetic"`
}

// FormatDate renders t in the result date layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
