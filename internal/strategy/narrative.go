package strategy

import (
	"fmt"
	"strings"

	"StockLens/internal/model"
)

// Conclude builds the human-readable conclusion for an analysis.
func Conclude(car, volRatio float64, sentiment model.Sentiment) string {
	lead, ok := Reactions[sentiment]
	if !ok {
		lead = Reactions[model.SentimentNeutral]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(lead, car))

	switch {
	case volRatio > VolatilityHighRatio:
		sb.WriteString(fmt.Sprintf(" Volatility increased significantly by %.2fx.", volRatio))
	case volRatio < VolatilityLowRatio:
		sb.WriteString(fmt.Sprintf(" Volatility decreased to %.2fx.", volRatio))
	}
	return sb.String()
}

// Describe classifies car and returns both the label and the conclusion.
func Describe(car, volRatio float64) (model.Sentiment, string) {
	s := Classify(car)
	return s, Conclude(car, volRatio, s)
}
