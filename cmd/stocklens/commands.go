package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"StockLens/internal/cache"
	"StockLens/internal/collector"
	"StockLens/internal/logger"
	"StockLens/internal/model"
	"StockLens/internal/notifier"
	"StockLens/internal/recorder"
	"StockLens/internal/scheduler"
)

var (
	benchmarkFlag string
	historyLimit  int
	chartPeriod   string
	runNow        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze TICKER YYYY-MM-DD",
	Short: "Run an event study for one ticker and event date",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := time.Parse("2006-01-02", args[1])
		if err != nil {
			return fmt.Errorf("invalid event date %q: %w", args[1], err)
		}
		an, _ := buildAnalyzer(cfg)
		rec := buildRecorder(cfg)
		defer rec.Close()

		res := an.AnalyzeEvent(cmd.Context(), args[0], benchmarkFlag, date)
		if err := rec.RecordAnalysis(recorder.NewRun(recorder.RunAnalyze), res); err != nil {
			logger.Error("record analysis: %v", err)
		}
		return render(cmd.OutOrStdout(), outFormat, res)
	},
}

var pastCmd = &cobra.Command{
	Use:   "past TICKER",
	Short: "Analyze the ticker's recent earnings events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		an, _ := buildAnalyzer(cfg)
		rec := buildRecorder(cfg)
		defer rec.Close()

		events := an.PastEvents(cmd.Context(), args[0])
		run := recorder.NewRun(recorder.RunPast)
		for _, e := range events {
			if err := rec.RecordAnalysis(run, e); err != nil {
				logger.Error("record analysis: %v", err)
			}
		}
		return render(cmd.OutOrStdout(), outFormat, events)
	},
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming TICKER",
	Short: "List the ticker's upcoming events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		an, _ := buildAnalyzer(cfg)
		rec := buildRecorder(cfg)
		defer rec.Close()

		events := an.UpcomingEvents(cmd.Context(), args[0])
		run := recorder.NewRun(recorder.RunUpcoming)
		for _, e := range events {
			if err := rec.RecordUpcoming(run, e); err != nil {
				logger.Error("record upcoming event: %v", err)
			}
		}
		return render(cmd.OutOrStdout(), outFormat, events)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history TICKER",
	Short: "Show previously recorded analyses for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec := buildRecorder(cfg)
		defer rec.Close()

		rows, err := rec.RecentAnalyses(strings.ToUpper(args[0]), historyLimit)
		if err != nil {
			return err
		}
		if rows == nil {
			rows = []model.EventAnalysisResult{}
		}
		return render(cmd.OutOrStdout(), outFormat, rows)
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote TICKER",
	Short: "Show the latest close and its 1d, 1w and 1m changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := buildProvider(cfg, cache.NewMemoryCache()).Quote(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outFormat, q)
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart TICKER",
	Short: "Show daily closes and volume over a period",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildProvider(cfg, cache.NewMemoryCache()).Chart(cmd.Context(), args[0], chartPeriod)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outFormat, c)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh the watchlist on a schedule and answer Telegram commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateWatch(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		logger.Info("StockLens watch starting...")

		an, provider := buildAnalyzer(cfg)
		rec := buildRecorder(cfg)
		defer rec.Close()
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sched := scheduler.NewScheduler(ctx, an, tn, rec, cfg.Watch.Watchlist).WithQuoter(provider)
		if err := sched.RegisterAll(cfg.Watch.RefreshCron); err != nil {
			return fmt.Errorf("register cron tasks: %w", err)
		}
		sched.Start()
		defer sched.Stop()

		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("telegram polling started")

		if runNow {
			logger.Info("--run-now set, refreshing watchlist now")
			go sched.RunRefreshNow()
		}

		logger.Info("StockLens is running. Press Ctrl+C to stop.")
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		logger.Info("shutdown signal received, stopping...")
		cancel()
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&benchmarkFlag, "benchmark", "b", "", "benchmark symbol (default from config)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum rows to show")
	chartCmd.Flags().StringVarP(&chartPeriod, "period", "p", collector.Period1M, "chart period: 1d, 1w or 1m")
	watchCmd.Flags().BoolVar(&runNow, "run-now", false, "refresh the watchlist once at startup")
}
