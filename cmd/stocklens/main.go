package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"StockLens/internal/config"
	"StockLens/internal/logger"
)

var (
	cfgPath   string
	outFormat string
	logLevel  string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "stocklens",
	Short:         "Measure the market-adjusted impact of corporate events on a stock",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		logger.Init(cfg.Logging.Level, cfg.Logging.Format)
		switch outFormat {
		case "text", "json", "yaml":
		default:
			return fmt.Errorf("unknown output format %q", outFormat)
		}
		return nil
	},
}

func init() {
	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultCfg, "config file path")
	rootCmd.PersistentFlags().StringVarP(&outFormat, "output", "o", "text", "output format: text, json or yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override")

	rootCmd.AddCommand(analyzeCmd, pastCmd, upcomingCmd, historyCmd, quoteCmd, chartCmd, watchCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
