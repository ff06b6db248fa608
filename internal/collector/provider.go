package collector

import (
	"context"
	"fmt"
	"time"

	"StockLens/internal/cache"
	"StockLens/internal/logger"
	"StockLens/internal/model"
)

// cachedSeries is the cached value for one (source, symbol) pair. It records
// the range it was fetched for so partial coverage is never served.
type cachedSeries struct {
	Start  time.Time
	End    time.Time
	Series model.PriceSeries
}

func (c cachedSeries) covers(start, end time.Time) bool {
	return !c.Start.After(start) && !c.End.Before(end)
}

// Provider fetches daily price history from an ordered list of sources,
// falling back on failure and caching successful fetches per source.
type Provider struct {
	sources []Source
	cache   cache.Cache
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithCacheTTL overrides the price cache lifetime.
func WithCacheTTL(ttl time.Duration) Option {
	return func(p *Provider) { p.ttl = ttl }
}

// WithClock replaces the time source used by History.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// NewProvider creates a provider trying sources in the given order.
// A nil cache disables caching.
func NewProvider(sources []Source, c cache.Cache, opts ...Option) *Provider {
	if c == nil {
		c = cache.Nop{}
	}
	p := &Provider{
		sources: sources,
		cache:   c,
		ttl:     cache.PricesTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Sources returns the configured source names in order.
func (p *Provider) Sources() []string {
	names := make([]string, len(p.sources))
	for i, s := range p.sources {
		names[i] = s.Name()
	}
	return names
}

func cacheKey(source, symbol string) string {
	return source + "_" + symbol
}

// Fetch returns daily bars for symbol within [start, end] from the first
// source that has data. Every source failing yields an empty series and a nil
// error. Errors are reserved for malformed input and for ctx being cancelled
// before a source answered.
func (p *Provider) Fetch(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return model.PriceSeries{}, err
	}
	if start.After(end) {
		return model.PriceSeries{}, fmt.Errorf("%w: start %s after end %s", ErrInvalidRange,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	empty := model.PriceSeries{Symbol: sym}

	for _, src := range p.sources {
		if err := ctx.Err(); err != nil {
			return empty, err
		}
		key := cacheKey(src.Name(), sym)

		if v, ok := p.cache.Get(cache.NamespacePrices, key); ok {
			if cs, ok := v.(cachedSeries); ok && cs.covers(start, end) {
				series := cs.Series.Slice(DayOf(start), DayOf(end))
				if !series.Empty() {
					logger.Debug("price cache hit %s", key)
					return series, nil
				}
			}
		}

		logger.Debug("fetching %s from %s", sym, src.Name())
		res := src.FetchDaily(ctx, sym, start, end)
		switch res.Status {
		case StatusSuccess:
		case StatusRateLimited:
			logger.Warn("source %s rate limited for %s, skipping", src.Name(), sym)
			continue
		default:
			logger.Warn("source %s failed for %s (%s): %v", src.Name(), sym, res.Status, res.Err)
			continue
		}

		bars := NormalizeBars(res.Series.Bars, start, end)
		if len(bars) == 0 {
			logger.Warn("source %s returned no usable bars for %s", src.Name(), sym)
			continue
		}
		series := model.PriceSeries{Symbol: sym, Source: src.Name(), Bars: bars, FetchedAt: p.now()}
		p.cache.Set(cache.NamespacePrices, key, cachedSeries{Start: start, End: end, Series: series}, p.ttl)
		return series, nil
	}

	logger.Warn("no source returned data for %s between %s and %s", sym,
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	return empty, nil
}

// History fetches the trailing lookback window ending now.
func (p *Provider) History(ctx context.Context, symbol string, lookback time.Duration) (model.PriceSeries, error) {
	now := p.now()
	return p.Fetch(ctx, symbol, now.Add(-lookback), now)
}
