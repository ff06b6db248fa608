package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"StockLens/internal/model"
)

var sample = model.EventAnalysisResult{
	Ticker: "AAPL", Event: model.EventEarningsReport, Date: "2024-05-02T00:00:00",
	CAR: 3.21, VolatilityChange: 1.62, Sentiment: model.SentimentPositive,
	Conclusion: "Strong positive market reaction with 3.21% abnormal return. Volatility increased significantly by 1.62x.",
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "json", sample))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 3.21, got["car_0_1"])
	assert.Equal(t, 1.62, got["volatility_change"])
	assert.Equal(t, "positive", got["sentiment"])
	assert.Equal(t, "2024-05-02T00:00:00", got["date"])
	assert.Equal(t, false, got["synthetic"])
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "yaml", []model.UpcomingEvent{{
		Ticker: "AAPL", Type: model.EventEarningsReport, Date: "2024-08-01T00:00:00", ExpectedImpact: model.ImpactHigh,
	}}))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "High", got[0]["expected_impact"])
	assert.Equal(t, "Earnings Report", got[0]["type"])
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "text", []model.EventAnalysisResult{sample, {
		Ticker: "AAPL", Event: model.EventAnalysis, Date: "2024-02-01T00:00:00",
		VolatilityChange: 1, Sentiment: model.SentimentNeutral,
		Conclusion: "Unable to analyze event due to insufficient data.", Synthetic: true,
	}}))
	out := buf.String()
	for _, want := range []string{"AAPL", "2024-05-02", "+3.21%", "1.62x", "synthetic result"} {
		assert.True(t, strings.Contains(out, want), "text output missing %q:\n%s", want, out)
	}
}

func TestRender_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "text", []model.UpcomingEvent{}))
	assert.Contains(t, buf.String(), "no upcoming events")
}

func TestRender_QuoteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "text", model.Quote{
		Ticker: "AAPL", Price: 130, AsOf: "2024-01-31T00:00:00", Source: "yahoo",
		Changes: []model.PriceChange{{Period: "1w", Base: 123, Change: 7, Percent: 5.69}},
	}))
	out := buf.String()
	for _, want := range []string{"AAPL", "130.00", "2024-01-31", "yahoo", "+7.00 (+5.69%)"} {
		assert.Contains(t, out, want)
	}
}

func TestRender_QuoteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "json", model.Quote{
		Ticker: "AAPL", Price: 130,
		Changes: []model.PriceChange{{Period: "1d", Base: 129, Change: 1, Percent: 0.78}},
	}))
	var got struct {
		Price   float64 `json:"price"`
		Changes []struct {
			Period  string  `json:"period"`
			Percent float64 `json:"change_percent"`
		} `json:"changes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 130.0, got.Price)
	require.Len(t, got.Changes, 1)
	assert.Equal(t, "1d", got.Changes[0].Period)
	assert.Equal(t, 0.78, got.Changes[0].Percent)
}

func TestRender_ChartText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "text", model.Chart{
		Ticker: "AAPL", Period: "1w",
		Points: []model.ChartPoint{
			{Date: "2024-01-24T00:00:00", Price: 123, Volume: 24000},
			{Date: "2024-01-31T00:00:00", Price: 130, Volume: 31000},
		},
	}))
	out := buf.String()
	for _, want := range []string{"AAPL 1w", "2024-01-24", "123.00", "2024-01-31", "130.00", "31000", "█"} {
		assert.Contains(t, out, want)
	}
}

func TestRender_ChartEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "text", model.Chart{Ticker: "AAPL", Period: "1m"}))
	assert.Contains(t, buf.String(), "no chart data")
}
