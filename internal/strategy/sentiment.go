package strategy

import "StockLens/internal/model"

// SentimentThreshold is the absolute CAR (percent) beyond which a reaction
// stops being neutral.
const SentimentThreshold = 2.0

// Volatility ratio bands that add a sentence to the conclusion.
const (
	VolatilityHighRatio = 1.5
	VolatilityLowRatio  = 0.7
)

// Reactions maps a sentiment to its conclusion lead sentence.
var Reactions = map[model.Sentiment]string{
	model.SentimentPositive: "Strong positive market reaction with %.2f%% abnormal return.",
	model.SentimentNegative: "Negative market reaction with %.2f%% abnormal return.",
	model.SentimentNeutral:  "Muted market reaction with %.2f%% abnormal return.",
}

// Classify maps a cumulative abnormal return to a sentiment label.
// Both boundaries are exclusive, so exactly ±2.0 stays neutral.
func Classify(car float64) model.Sentiment {
	switch {
	case car > SentimentThreshold:
		return model.SentimentPositive
	case car < -SentimentThreshold:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// ExpectedImpact returns the forecast impact level for an event label.
func ExpectedImpact(eventType string) model.ImpactLevel {
	switch eventType {
	case model.EventEarningsReport:
		return model.ImpactHigh
	default:
		return model.ImpactMedium
	}
}
