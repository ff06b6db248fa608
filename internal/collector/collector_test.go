package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"StockLens/internal/cache"
	"StockLens/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weekdayBars(start time.Time, n int, price float64) []model.OHLCV {
	bars := make([]model.OHLCV, 0, n)
	for d := start; len(bars) < n; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		bars = append(bars, model.OHLCV{Time: d, Close: price})
	}
	return bars
}

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{" aapl ", "AAPL", false},
		{"brk.b", "BRK.B", false},
		{"^gspc", "^GSPC", false},
		{"", "", true},
		{"AAPL; DROP", "", true},
		{"TOOLONGSYMBOL1", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeSymbol(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSymbol)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeBars(t *testing.T) {
	ny := time.FixedZone("EST", -5*3600)
	bars := []model.OHLCV{
		{Time: time.Date(2024, 1, 3, 9, 30, 0, 0, ny), Close: 101},
		{Time: time.Date(2024, 1, 2, 9, 30, 0, 0, ny), Close: 100},
		{Time: time.Date(2024, 1, 2, 16, 0, 0, 0, ny), Close: 100.5},
		{Time: time.Date(2024, 1, 4, 9, 30, 0, 0, ny), Close: 0},
		{Time: time.Date(2024, 1, 5, 9, 30, 0, 0, ny), Close: 103},
		{Time: time.Date(2023, 12, 29, 9, 30, 0, 0, ny), Close: 99},
	}

	got := NormalizeBars(bars, day(2024, 1, 1), day(2024, 1, 5))
	require.Len(t, got, 3)
	assert.Equal(t, day(2024, 1, 2), got[0].Time)
	assert.Equal(t, 100.5, got[0].Close, "last bar of the day wins")
	assert.Equal(t, day(2024, 1, 3), got[1].Time)
	assert.Equal(t, day(2024, 1, 5), got[2].Time)
	assert.Equal(t, time.UTC, got[0].Time.Location())
}

func TestProvider_FallbackToSecondSource(t *testing.T) {
	primary := &MockSource{SourceName: "yahoo", Status: StatusTransportError}
	secondary := &MockSource{SourceName: "alpha_vantage", Bars: map[string][]model.OHLCV{
		"AAPL": weekdayBars(day(2024, 1, 1), 20, 150),
	}}
	p := NewProvider([]Source{primary, secondary}, cache.NewMemoryCache())

	s, err := p.Fetch(context.Background(), "aapl", day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, "alpha_vantage", s.Source)
	assert.Equal(t, "AAPL", s.Symbol)
	assert.Equal(t, 20, s.Len())
	assert.Equal(t, 1, primary.Calls)
}

func TestProvider_RateLimitedNotCached(t *testing.T) {
	limited := &MockSource{SourceName: "yahoo", Status: StatusRateLimited}
	c := cache.NewMemoryCache()
	p := NewProvider([]Source{limited}, c)

	s, err := p.Fetch(context.Background(), "AAPL", day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	assert.True(t, s.Empty())
	assert.Equal(t, 0, c.Len())
}

func TestProvider_AllSourcesEmpty(t *testing.T) {
	p := NewProvider([]Source{
		&MockSource{SourceName: "yahoo", Status: StatusNotFound},
		&MockSource{SourceName: "alpha_vantage", Bars: map[string][]model.OHLCV{}},
	}, nil)

	s, err := p.Fetch(context.Background(), "ZZZZ", day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	assert.True(t, s.Empty())
}

func TestProvider_InvalidInput(t *testing.T) {
	p := NewProvider(nil, nil)

	_, err := p.Fetch(context.Background(), "not a symbol!", day(2024, 1, 1), day(2024, 1, 2))
	assert.ErrorIs(t, err, ErrInvalidSymbol)

	_, err = p.Fetch(context.Background(), "AAPL", day(2024, 2, 1), day(2024, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestProvider_CacheCoverage(t *testing.T) {
	src := &MockSource{SourceName: "yahoo", Bars: map[string][]model.OHLCV{
		"AAPL": weekdayBars(day(2023, 12, 1), 60, 150),
	}}
	c := cache.NewMemoryCache()
	p := NewProvider([]Source{src}, c)
	ctx := context.Background()

	_, err := p.Fetch(ctx, "AAPL", day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	require.Equal(t, 1, src.Calls)

	_, ok := c.Get(cache.NamespacePrices, "yahoo_AAPL")
	assert.True(t, ok, "success is cached under <source>_<SYMBOL>")

	inner, err := p.Fetch(ctx, "AAPL", day(2024, 1, 8), day(2024, 1, 19))
	require.NoError(t, err)
	assert.Equal(t, 1, src.Calls, "covered range served from cache")
	assert.Equal(t, day(2024, 1, 8), inner.First())
	assert.Equal(t, day(2024, 1, 19), inner.Last())

	_, err = p.Fetch(ctx, "AAPL", day(2023, 12, 1), day(2024, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, 2, src.Calls, "wider range refetches")
}

func TestProvider_ContextCancelled(t *testing.T) {
	src := &MockSource{SourceName: "yahoo", Price: 10}
	p := NewProvider([]Source{src}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, err := p.Fetch(ctx, "AAPL", day(2024, 1, 1), day(2024, 1, 31))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, s.Empty())
	assert.Equal(t, 0, src.Calls)
}

func TestProvider_CancelledBetweenSources(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	first := &cancellingSource{cancel: cancel}
	second := &MockSource{SourceName: "alpha_vantage", Price: 10}
	p := NewProvider([]Source{first, second}, nil)

	s, err := p.Fetch(ctx, "AAPL", day(2024, 1, 1), day(2024, 1, 31))
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, s.Empty())
	assert.Equal(t, "AAPL", s.Symbol)
	assert.Equal(t, 0, second.Calls, "no further sources after cancellation")
}

// cancellingSource fails with a transport error and cancels the caller.
type cancellingSource struct {
	cancel context.CancelFunc
}

func (c *cancellingSource) Name() string { return "yahoo" }

func (c *cancellingSource) FetchDaily(_ context.Context, _ string, _, _ time.Time) FetchResult {
	c.cancel()
	return failure(StatusTransportError, errors.New("connection reset"))
}

func TestProvider_History(t *testing.T) {
	now := day(2024, 3, 1)
	src := &MockSource{SourceName: "mock", Price: 50}
	p := NewProvider([]Source{src}, nil, WithClock(func() time.Time { return now }))

	s, err := p.History(context.Background(), "SPY", 30*24*time.Hour)
	require.NoError(t, err)
	assert.False(t, s.Empty())
	assert.False(t, s.Last().After(now))
	assert.False(t, s.First().Before(now.AddDate(0, 0, -30)))
	assert.Equal(t, []string{"mock"}, p.Sources())
}

const yahooFixture = `{"chart":{"result":[{"meta":{"gmtoffset":-18000},
"timestamp":[1704205800,1704292200,1704378600],
"indicators":{"quote":[{"open":[185.0,184.0,null],"high":[188.0,186.0,null],
"low":[183.0,182.0,null],"close":[185.6,184.2,null],"volume":[1000,2000,null]}]}}],"error":null}}`

func TestYahooSource_FetchDaily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/^GSPC", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.NotEmpty(t, r.URL.Query().Get("period1"))
		_, _ = w.Write([]byte(yahooFixture))
	}))
	defer srv.Close()

	y := NewYahooSource("", time.Second)
	y.BaseURL = srv.URL

	res := y.FetchDaily(context.Background(), "SPX", day(2024, 1, 1), day(2024, 1, 5))
	require.Equal(t, StatusSuccess, res.Status, "err: %v", res.Err)
	require.Len(t, res.Series.Bars, 2, "null bar skipped")

	bars := NormalizeBars(res.Series.Bars, day(2024, 1, 1), day(2024, 1, 5))
	require.Len(t, bars, 2)
	assert.Equal(t, day(2024, 1, 2), bars[0].Time)
	assert.Equal(t, 185.6, bars[0].Close)
}

func TestYahooSource_Statuses(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		body   string
		status FetchStatus
	}{
		{"rate limited", http.StatusTooManyRequests, "", StatusRateLimited},
		{"not found", http.StatusNotFound, "", StatusNotFound},
		{"server error", http.StatusInternalServerError, "oops", StatusTransportError},
		{"api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, StatusNotFound},
		{"bad json", http.StatusOK, `{`, StatusTransportError},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`, StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			y := NewYahooSource("", time.Second)
			y.BaseURL = srv.URL
			res := y.FetchDaily(context.Background(), "AAPL", day(2024, 1, 1), day(2024, 1, 5))
			assert.Equal(t, tt.status, res.Status)
			assert.Error(t, res.Err)
		})
	}
}

const avFixture = `{"Meta Data":{"2. Symbol":"AAPL"},"Time Series (Daily)":{
"2024-01-03":{"1. open":"184.2","2. high":"185.9","3. low":"183.4","4. close":"184.25","5. volume":"58414460"},
"2024-01-02":{"1. open":"187.15","2. high":"188.44","3. low":"183.885","4. close":"185.64","5. volume":"82488674"}}}`

func TestAlphaVantageSource_FetchDaily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_DAILY", r.URL.Query().Get("function"))
		assert.Equal(t, "full", r.URL.Query().Get("outputsize"))
		assert.Equal(t, "k", r.URL.Query().Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(avFixture))
	}))
	defer srv.Close()

	av := NewAlphaVantageSource("k", "", time.Second).WithBaseURL(srv.URL)
	res := av.FetchDaily(context.Background(), "AAPL", day(2024, 1, 1), day(2024, 1, 5))
	require.Equal(t, StatusSuccess, res.Status, "err: %v", res.Err)

	bars := NormalizeBars(res.Series.Bars, day(2024, 1, 1), day(2024, 1, 5))
	require.Len(t, bars, 2)
	assert.Equal(t, day(2024, 1, 2), bars[0].Time)
	assert.Equal(t, 185.64, bars[0].Close)
	assert.Equal(t, 184.25, bars[1].Close)
}

func TestAlphaVantageSource_Statuses(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status FetchStatus
	}{
		{"note", `{"Note":"Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute"}`, StatusRateLimited},
		{"information", `{"Information":"daily limit reached"}`, StatusRateLimited},
		{"error message", `{"Error Message":"Invalid API call."}`, StatusNotFound},
		{"empty", `{}`, StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			av := NewAlphaVantageSource("k", "", time.Second).WithBaseURL(srv.URL)
			res := av.FetchDaily(context.Background(), "AAPL", day(2024, 1, 1), day(2024, 1, 5))
			assert.Equal(t, tt.status, res.Status)
		})
	}
}

func TestAlphaVantageSource_LocalLimiter(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	av := NewAlphaVantageSource("k", "", time.Second).
		WithBaseURL(srv.URL).
		WithLimiter(rate.NewLimiter(0, 0))
	res := av.FetchDaily(context.Background(), "AAPL", day(2024, 1, 1), day(2024, 1, 5))
	assert.Equal(t, StatusRateLimited, res.Status)
	assert.False(t, called)
}
