package main

import (
	"os"
	"path/filepath"

	"StockLens/internal/analyzer"
	"StockLens/internal/cache"
	"StockLens/internal/collector"
	"StockLens/internal/config"
	"StockLens/internal/logger"
	"StockLens/internal/recorder"
)

// buildSources creates price sources in the configured order. Sources that
// lack credentials are left out.
func buildSources(cfg *config.Config) []collector.Source {
	var sources []collector.Source
	for _, name := range cfg.DataSource.Order {
		switch name {
		case config.SourceYahoo:
			sources = append(sources, collector.NewYahooSource(cfg.DataSource.Proxy, cfg.DataSource.Timeout))
		case config.SourceAlphaVantage:
			if cfg.DataSource.AlphaVantageKey == "" {
				logger.Warn("alpha_vantage disabled: no API key")
				continue
			}
			sources = append(sources, collector.NewAlphaVantageSource(
				cfg.DataSource.AlphaVantageKey, cfg.DataSource.Proxy, cfg.DataSource.Timeout))
		}
	}
	return sources
}

func buildCalendar(cfg *config.Config) collector.EarningsCalendar {
	var cals collector.MultiCalendar
	if cfg.DataSource.FinnhubKey != "" {
		cals = append(cals, collector.NewFinnhubCalendar(cfg.DataSource.FinnhubKey, cfg.DataSource.Proxy, cfg.DataSource.Timeout))
	}
	cals = append(cals, collector.YahooCalendar{})
	return cals
}

func buildProvider(cfg *config.Config, c cache.Cache) *collector.Provider {
	provider := collector.NewProvider(buildSources(cfg), c, collector.WithCacheTTL(cfg.Cache.PricesTTL))
	logger.Debug("price sources: %v", provider.Sources())
	return provider
}

// buildAnalyzer returns the analyzer together with the provider it reads
// prices from; both share one cache.
func buildAnalyzer(cfg *config.Config) (*analyzer.Analyzer, *collector.Provider) {
	mc := cache.NewMemoryCache()
	provider := buildProvider(cfg, mc)

	an := analyzer.New(provider,
		analyzer.WithBenchmark(cfg.Analysis.Benchmark),
		analyzer.WithWindows(analyzer.Windows{
			Estimation: cfg.Analysis.EstimationDays,
			Before:     cfg.Analysis.BeforeDays,
			After:      cfg.Analysis.AfterDays,
			Buffer:     cfg.Analysis.BufferDays,
		}),
		analyzer.WithCalendar(buildCalendar(cfg)),
		analyzer.WithCache(mc),
		analyzer.WithTTLs(cfg.Cache.PastTTL, cfg.Cache.UpcomingTTL),
	)
	return an, provider
}

func buildRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
		logger.Warn("create database dir failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		logger.Warn("init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}
