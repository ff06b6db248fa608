// Package analyzer measures the market-adjusted impact of corporate events
// on a single equity using a market-model event study.
package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"StockLens/internal/cache"
	"StockLens/internal/calculator"
	"StockLens/internal/collector"
	"StockLens/internal/logger"
	"StockLens/internal/model"
	"StockLens/internal/strategy"
)

// DefaultBenchmark is the broad-market proxy used when none is given.
const DefaultBenchmark = "SPY"

// MinEstimationObservations is the smallest estimation window accepted.
const MinEstimationObservations = 30

// PlaceholderConclusion is the conclusion of a result that could not be computed.
const PlaceholderConclusion = "Unable to analyze event due to insufficient data."

// PriceFetcher returns daily bars for a symbol within [start, end].
// An empty series with a nil error means the data is unavailable.
type PriceFetcher interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error)
}

// Windows holds the window sizes in calendar days.
type Windows struct {
	Estimation int
	Before     int
	After      int
	Buffer     int
}

// DefaultWindows returns the standard 120/5/5/5 day layout.
func DefaultWindows() Windows {
	return Windows{Estimation: 120, Before: 5, After: 5, Buffer: 5}
}

// Range returns the fetch range around eventDate.
func (w Windows) Range(eventDate time.Time) (time.Time, time.Time) {
	start := eventDate.AddDate(0, 0, -(w.Estimation + w.Before))
	end := eventDate.AddDate(0, 0, w.After+w.Buffer)
	return start, end
}

func (w Windows) withDefaults() Windows {
	d := DefaultWindows()
	if w.Estimation <= 0 {
		w.Estimation = d.Estimation
	}
	if w.Before < 0 {
		w.Before = d.Before
	}
	if w.After < 0 {
		w.After = d.After
	}
	if w.Buffer < 0 {
		w.Buffer = d.Buffer
	}
	return w
}

// Analyzer runs event studies against a PriceFetcher.
type Analyzer struct {
	fetcher   PriceFetcher
	benchmark string
	windows   Windows
	calendar  collector.EarningsCalendar
	cache     cache.Cache
	pastTTL   time.Duration
	nextTTL   time.Duration
	now       func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithBenchmark sets the default benchmark symbol.
func WithBenchmark(symbol string) Option {
	return func(a *Analyzer) {
		if symbol != "" {
			a.benchmark = symbol
		}
	}
}

// WithWindows overrides the window sizes.
func WithWindows(w Windows) Option {
	return func(a *Analyzer) { a.windows = w.withDefaults() }
}

// WithCalendar sets the earnings calendar used for past and upcoming events.
func WithCalendar(c collector.EarningsCalendar) Option {
	return func(a *Analyzer) { a.calendar = c }
}

// WithCache sets the cache for past and upcoming event bundles.
func WithCache(c cache.Cache) Option {
	return func(a *Analyzer) {
		if c != nil {
			a.cache = c
		}
	}
}

// WithTTLs overrides the lifetimes of cached past and upcoming event bundles.
func WithTTLs(past, upcoming time.Duration) Option {
	return func(a *Analyzer) {
		if past > 0 {
			a.pastTTL = past
		}
		if upcoming > 0 {
			a.nextTTL = upcoming
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New creates an Analyzer.
func New(fetcher PriceFetcher, opts ...Option) *Analyzer {
	a := &Analyzer{
		fetcher:   fetcher,
		benchmark: DefaultBenchmark,
		windows:   DefaultWindows(),
		cache:     cache.Nop{},
		pastTTL:   cache.PastEventsTTL,
		nextTTL:   cache.UpcomingEventsTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Benchmark returns the default benchmark symbol.
func (a *Analyzer) Benchmark() string { return a.benchmark }

// Placeholder returns the neutral result used when an analysis fails.
func Placeholder(ticker string, eventDate time.Time) model.EventAnalysisResult {
	return model.EventAnalysisResult{
		Ticker:           ticker,
		Event:            model.EventAnalysis,
		Date:             model.FormatDate(eventDate),
		CAR:              0.0,
		VolatilityChange: 1.0,
		Sentiment:        model.SentimentNeutral,
		Conclusion:       PlaceholderConclusion,
		Synthetic:        true,
	}
}

func (a *Analyzer) fetch(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	s, err := a.fetcher.Fetch(ctx, symbol, start, end)
	if err != nil {
		return s, &SourceError{Symbol: symbol, Err: err}
	}
	if s.Empty() {
		return s, fmt.Errorf("%w: no prices for %s", ErrInsufficientData, symbol)
	}
	return s, nil
}

// Analyze runs the event study and reports why it failed, if it did.
// An empty benchmark uses the analyzer's default.
func (a *Analyzer) Analyze(ctx context.Context, ticker, benchmark string, eventDate time.Time) (model.EventAnalysisResult, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if benchmark == "" {
		benchmark = a.benchmark
	}
	eventDate = collector.DayOf(eventDate)
	start, end := a.windows.Range(eventDate)

	subject, err := a.fetch(ctx, ticker, start, end)
	if err != nil {
		return model.EventAnalysisResult{}, err
	}
	bench, err := a.fetch(ctx, benchmark, start, end)
	if err != nil {
		return model.EventAnalysisResult{}, err
	}

	aligned := calculator.Align(
		calculator.CalculateReturns(subject.Bars),
		calculator.CalculateReturns(bench.Bars),
	)
	w := calculator.SplitWindows(aligned, eventDate, a.windows.Before, a.windows.After)
	if len(w.Estimation) < MinEstimationObservations {
		return model.EventAnalysisResult{}, fmt.Errorf("%w: %d estimation observations, need %d",
			ErrInsufficientData, len(w.Estimation), MinEstimationObservations)
	}
	if len(w.Event) == 0 {
		return model.EventAnalysisResult{}, fmt.Errorf("%w: empty event window", ErrInsufficientData)
	}

	mm, err := calculator.FitEstimationWindow(w.Estimation)
	if err != nil {
		return model.EventAnalysisResult{}, fmt.Errorf("%w: %v", ErrNumericalDegeneracy, err)
	}
	car := calculator.CumulativeAbnormalReturn(calculator.AbnormalReturns(mm, w.Event))
	ratio := calculator.VolatilityRatio(w)
	if !calculator.Finite(car) || !calculator.Finite(ratio) {
		return model.EventAnalysisResult{}, fmt.Errorf("%w: car=%v ratio=%v", ErrNumericalDegeneracy, car, ratio)
	}

	car = calculator.Round2(car)
	ratio = calculator.Round2(ratio)
	sentiment, conclusion := strategy.Describe(car, ratio)

	logger.Debug("analysis %s vs %s @ %s: alpha=%.6f beta=%.4f car=%.2f vol=%.2f (est=%d evt=%d)",
		ticker, benchmark, eventDate.Format("2006-01-02"), mm.Alpha, mm.Beta, car, ratio,
		len(w.Estimation), len(w.Event))

	return model.EventAnalysisResult{
		Ticker:           ticker,
		Event:            model.EventAnalysis,
		Date:             model.FormatDate(eventDate),
		CAR:              car,
		VolatilityChange: ratio,
		Sentiment:        sentiment,
		Conclusion:       conclusion,
	}, nil
}

// AnalyzeEvent always returns a well-formed result. Any failure, including a
// panic in the computation, yields the placeholder.
func (a *Analyzer) AnalyzeEvent(ctx context.Context, ticker, benchmark string, eventDate time.Time) (res model.EventAnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("analysis of %s panicked: %v", ticker, r)
			res = Placeholder(strings.ToUpper(strings.TrimSpace(ticker)), collector.DayOf(eventDate))
		}
	}()

	res, err := a.Analyze(ctx, ticker, benchmark, eventDate)
	if err != nil {
		logger.Warn("analysis of %s @ %s unavailable: %v", ticker, eventDate.Format("2006-01-02"), err)
		return Placeholder(strings.ToUpper(strings.TrimSpace(ticker)), collector.DayOf(eventDate))
	}
	return res
}
