package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if got := cfg.DataSource.Order; len(got) != 2 || got[0] != SourceYahoo || got[1] != SourceAlphaVantage {
		t.Errorf("default order = %v", got)
	}
	if cfg.Analysis.Benchmark != "SPY" {
		t.Errorf("benchmark = %q, want SPY", cfg.Analysis.Benchmark)
	}
	if cfg.Analysis.EstimationDays != 120 || cfg.Analysis.BeforeDays != 5 ||
		cfg.Analysis.AfterDays != 5 || cfg.Analysis.BufferDays != 5 {
		t.Errorf("unexpected window defaults: %+v", cfg.Analysis)
	}
	if cfg.Cache.PricesTTL != 24*time.Hour || cfg.Cache.PastTTL != 15*time.Minute || cfg.Cache.UpcomingTTL != time.Hour {
		t.Errorf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if cfg.DataSource.Timeout != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", cfg.DataSource.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
data_source:
  order: [alpha_vantage, yahoo]
  timeout: 5s
analysis:
  benchmark: QQQ
  estimation_days: 90
watch:
  watchlist: [AAPL, MSFT]
logging:
  format: json
`)
	t.Setenv("STOCKLENS_BENCHMARK", "IWM")
	t.Setenv("STOCKLENS_WATCHLIST", " nvda, tsla ,")
	t.Setenv("ALPHA_VANTAGE_KEY", "av-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataSource.Order[0] != SourceAlphaVantage {
		t.Errorf("order = %v", cfg.DataSource.Order)
	}
	if cfg.DataSource.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.DataSource.Timeout)
	}
	if cfg.Analysis.Benchmark != "IWM" {
		t.Errorf("env should override benchmark, got %q", cfg.Analysis.Benchmark)
	}
	if cfg.Analysis.EstimationDays != 90 {
		t.Errorf("estimation_days = %d, want 90", cfg.Analysis.EstimationDays)
	}
	if len(cfg.Watch.Watchlist) != 2 || cfg.Watch.Watchlist[0] != "NVDA" || cfg.Watch.Watchlist[1] != "TSLA" {
		t.Errorf("watchlist = %v", cfg.Watch.Watchlist)
	}
	if cfg.DataSource.AlphaVantageKey != "av-key" {
		t.Errorf("alpha vantage key not read from env")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "data_source: [unterminated")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(*Config) {}, false},
		{"unknown source", func(c *Config) { c.DataSource.Order = []string{"bloomberg"} }, true},
		{"short estimation", func(c *Config) { c.Analysis.EstimationDays = 10 }, true},
		{"negative window", func(c *Config) { c.Analysis.AfterDays = -1 }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWatch(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("STOCKLENS_WATCHLIST", "")

	cfg, _ := Load("")
	if err := cfg.ValidateWatch(); err == nil {
		t.Error("expected missing telegram token error")
	}
	cfg.Telegram.BotToken = "t"
	cfg.Telegram.ChatID = "1"
	if err := cfg.ValidateWatch(); err == nil {
		t.Error("expected empty watchlist error")
	}
	cfg.Watch.Watchlist = []string{"AAPL"}
	if err := cfg.ValidateWatch(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_ZeroWindowsKept(t *testing.T) {
	path := writeConfig(t, "analysis:\n  before_days: 0\n  after_days: 0\n  buffer_days: 0\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Analysis.BeforeDays != 0 || cfg.Analysis.AfterDays != 0 || cfg.Analysis.BufferDays != 0 {
		t.Errorf("zero windows overwritten: %+v", cfg.Analysis)
	}
	if cfg.Analysis.EstimationDays != 120 {
		t.Errorf("estimation = %d, want default 120", cfg.Analysis.EstimationDays)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero windows should validate: %v", err)
	}
}

func TestLoad_PartialWindowsKeepDefaults(t *testing.T) {
	path := writeConfig(t, "analysis:\n  before_days: 0\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Analysis.BeforeDays != 0 {
		t.Errorf("before = %d, want 0", cfg.Analysis.BeforeDays)
	}
	if cfg.Analysis.AfterDays != 5 || cfg.Analysis.BufferDays != 5 {
		t.Errorf("absent keys should default to 5: %+v", cfg.Analysis)
	}
}
