package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"StockLens/internal/model"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageSource fetches daily bars from the Alpha Vantage TIME_SERIES_DAILY API.
type AlphaVantageSource struct {
	APIKey  string
	client  *resty.Client
	limiter *rate.Limiter
}

// NewAlphaVantageSource creates the source. The free tier allows 5 calls a
// minute; requests over that budget are reported as rate limited locally.
func NewAlphaVantageSource(apiKey, proxyURL string, timeout time.Duration) *AlphaVantageSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New().
		SetBaseURL(alphaVantageBaseURL).
		SetTimeout(timeout)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &AlphaVantageSource{
		APIKey:  apiKey,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(12*time.Second), 5),
	}
}

// WithBaseURL points the source at another endpoint, used by tests.
func (s *AlphaVantageSource) WithBaseURL(u string) *AlphaVantageSource {
	s.client.SetBaseURL(u)
	return s
}

// WithLimiter replaces the client-side rate limiter.
func (s *AlphaVantageSource) WithLimiter(l *rate.Limiter) *AlphaVantageSource {
	s.limiter = l
	return s
}

func (s *AlphaVantageSource) Name() string { return "alpha_vantage" }

type avResponse struct {
	Note         string                       `json:"Note"`
	Information  string                       `json:"Information"`
	ErrorMessage string                       `json:"Error Message"`
	Series       map[string]map[string]string `json:"Time Series (Daily)"`
}

func (s *AlphaVantageSource) FetchDaily(ctx context.Context, symbol string, start, end time.Time) FetchResult {
	if s.limiter != nil && !s.limiter.Allow() {
		return failure(StatusRateLimited, fmt.Errorf("alpha vantage: local request budget exhausted"))
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":   "TIME_SERIES_DAILY",
			"symbol":     symbol,
			"outputsize": "full",
			"apikey":     s.APIKey,
		}).
		Get("/query")
	if err != nil {
		return failure(StatusTransportError, fmt.Errorf("alpha vantage fetch: %w", err))
	}
	switch {
	case resp.StatusCode() == http.StatusTooManyRequests:
		return failure(StatusRateLimited, fmt.Errorf("alpha vantage: rate limited"))
	case resp.StatusCode() != http.StatusOK:
		return failure(StatusTransportError, fmt.Errorf("alpha vantage: status %d", resp.StatusCode()))
	}

	var body avResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return failure(StatusTransportError, fmt.Errorf("alpha vantage decode: %w", err))
	}
	if body.Note != "" || body.Information != "" {
		return failure(StatusRateLimited, fmt.Errorf("alpha vantage: %s%s", body.Note, body.Information))
	}
	if body.ErrorMessage != "" {
		return failure(StatusNotFound, fmt.Errorf("alpha vantage: %s", body.ErrorMessage))
	}
	if len(body.Series) == 0 {
		return failure(StatusNotFound, fmt.Errorf("alpha vantage: no data returned for %s", symbol))
	}

	bars := make([]model.OHLCV, 0, len(body.Series))
	for day, fields := range body.Series {
		t, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   t,
			Open:   parseField(fields["1. open"]),
			High:   parseField(fields["2. high"]),
			Low:    parseField(fields["3. low"]),
			Close:  parseField(fields["4. close"]),
			Volume: parseField(fields["5. volume"]),
		})
	}

	return success(model.PriceSeries{Symbol: symbol, Source: s.Name(), Bars: bars})
}

func parseField(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
