package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Known price source names.
const (
	SourceYahoo        = "yahoo"
	SourceAlphaVantage = "alpha_vantage"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Order           []string      `yaml:"order"`
		AlphaVantageKey string        `yaml:"alpha_vantage_key"`
		FinnhubKey      string        `yaml:"finnhub_key"`
		Timeout         time.Duration `yaml:"timeout"`
		Proxy           string        `yaml:"proxy"`
	} `yaml:"data_source"`
	Analysis struct {
		Benchmark      string `yaml:"benchmark"`
		EstimationDays int    `yaml:"estimation_days"`
		BeforeDays     int    `yaml:"before_days"`
		AfterDays      int    `yaml:"after_days"`
		BufferDays     int    `yaml:"buffer_days"`
	} `yaml:"analysis"`
	Cache struct {
		PricesTTL   time.Duration `yaml:"prices_ttl"`
		PastTTL     time.Duration `yaml:"past_events_ttl"`
		UpcomingTTL time.Duration `yaml:"upcoming_events_ttl"`
	} `yaml:"cache"`
	Watch struct {
		Watchlist   []string `yaml:"watchlist"`
		RefreshCron string   `yaml:"refresh_cron"`
	} `yaml:"watch"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// Load reads a .env file if present, then config from a YAML file, then
// applies environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	// Zero is a valid window size, so these are pre-filled rather than
	// defaulted after parsing.
	cfg.Analysis.BeforeDays = 5
	cfg.Analysis.AfterDays = 5
	cfg.Analysis.BufferDays = 5

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ALPHA_VANTAGE_KEY"); v != "" {
		cfg.DataSource.AlphaVantageKey = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		cfg.DataSource.FinnhubKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("STOCKLENS_BENCHMARK"); v != "" {
		cfg.Analysis.Benchmark = v
	}
	if v := os.Getenv("STOCKLENS_WATCHLIST"); v != "" {
		cfg.Watch.Watchlist = splitList(v)
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Watch.RefreshCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Defaults
	if len(cfg.DataSource.Order) == 0 {
		cfg.DataSource.Order = []string{SourceYahoo, SourceAlphaVantage}
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 10 * time.Second
	}
	if cfg.Analysis.Benchmark == "" {
		cfg.Analysis.Benchmark = "SPY"
	}
	if cfg.Analysis.EstimationDays == 0 {
		cfg.Analysis.EstimationDays = 120
	}
	if cfg.Cache.PricesTTL == 0 {
		cfg.Cache.PricesTTL = 24 * time.Hour
	}
	if cfg.Cache.PastTTL == 0 {
		cfg.Cache.PastTTL = 15 * time.Minute
	}
	if cfg.Cache.UpcomingTTL == 0 {
		cfg.Cache.UpcomingTTL = time.Hour
	}
	if cfg.Watch.RefreshCron == "" {
		cfg.Watch.RefreshCron = "0 30 21 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stocklens.db"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	for _, name := range c.DataSource.Order {
		switch name {
		case SourceYahoo, SourceAlphaVantage:
		default:
			return fmt.Errorf("data_source.order: unknown source %q", name)
		}
	}
	if c.DataSource.Timeout < 0 {
		return fmt.Errorf("data_source.timeout must not be negative")
	}
	if c.Analysis.EstimationDays < 30 {
		return fmt.Errorf("analysis.estimation_days must be at least 30")
	}
	if c.Analysis.BeforeDays < 0 || c.Analysis.AfterDays < 0 || c.Analysis.BufferDays < 0 {
		return fmt.Errorf("analysis window days must not be negative")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json")
	}
	return nil
}

// ValidateWatch checks the settings the watch daemon needs on top of Validate.
func (c *Config) ValidateWatch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if len(c.Watch.Watchlist) == 0 {
		return fmt.Errorf("watch.watchlist must not be empty")
	}
	return nil
}
