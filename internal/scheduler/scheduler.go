package scheduler

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"StockLens/internal/logger"
	"StockLens/internal/model"
	"StockLens/internal/notifier"
	"StockLens/internal/recorder"
)

// EventAnalyzer is the analysis surface the scheduler drives.
type EventAnalyzer interface {
	AnalyzeEvent(ctx context.Context, ticker, benchmark string, eventDate time.Time) model.EventAnalysisResult
	PastEvents(ctx context.Context, ticker string) []model.EventAnalysisResult
	UpcomingEvents(ctx context.Context, ticker string) []model.UpcomingEvent
}

// Quoter returns the latest price of a ticker.
type Quoter interface {
	Quote(ctx context.Context, ticker string) (model.Quote, error)
}

// Sender delivers formatted messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the watchlist refresh and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Analyzer  EventAnalyzer
	Quotes    Quoter
	Notifier  Sender
	Recorder  recorder.Recorder
	Watchlist []string
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, an EventAnalyzer, sender Sender, rec recorder.Recorder, watchlist []string) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Analyzer:  an,
		Notifier:  sender,
		Recorder:  rec,
		Watchlist: watchlist,
		Ctx:       ctx,
	}
}

// WithQuoter enables the /quote command.
func (s *Scheduler) WithQuoter(q Quoter) *Scheduler {
	s.Quotes = q
	return s
}

// RegisterAll registers the watchlist refresh task.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Info("scheduler started, watching %d tickers", len(s.Watchlist))
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.Info("scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately.
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	logger.Info("running watchlist refresh")
	run := recorder.NewRun(recorder.RunRefresh)

	sections := make([]string, 0, len(s.Watchlist))
	for _, ticker := range s.Watchlist {
		past := s.Analyzer.PastEvents(s.Ctx, ticker)
		upcoming := s.Analyzer.UpcomingEvents(s.Ctx, ticker)
		s.record(run, past, upcoming)
		sections = append(sections, notifier.FormatPastEvents(ticker, past)+notifier.FormatUpcoming(ticker, upcoming))
	}
	if len(sections) == 0 {
		return
	}
	s.trySend(notifier.FormatDigest(sections))
}

func (s *Scheduler) record(run recorder.Run, past []model.EventAnalysisResult, upcoming []model.UpcomingEvent) {
	for _, res := range past {
		if err := s.Recorder.RecordAnalysis(run, res); err != nil {
			logger.Error("record analysis: %v", err)
		}
	}
	for _, ev := range upcoming {
		if err := s.Recorder.RecordUpcoming(run, ev); err != nil {
			logger.Error("record upcoming event: %v", err)
		}
	}
}

const helpText = "可用命令:\n" +
	"• /past TICKER 历史事件分析\n" +
	"• /upcoming TICKER 即将发生的事件\n" +
	"• /analyze TICKER YYYY-MM-DD 单个事件分析\n" +
	"• /quote TICKER 最新行情\n" +
	"• /watchlist 关注列表\n" +
	"• /refresh 立即刷新"

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	args := fields[1:]

	switch fields[0] {
	case "/past":
		if len(args) != 1 {
			return "用法: /past TICKER"
		}
		past := s.Analyzer.PastEvents(ctx, args[0])
		s.record(recorder.NewRun(recorder.RunPast), past, nil)
		return notifier.FormatPastEvents(strings.ToUpper(args[0]), past)
	case "/upcoming":
		if len(args) != 1 {
			return "用法: /upcoming TICKER"
		}
		upcoming := s.Analyzer.UpcomingEvents(ctx, args[0])
		s.record(recorder.NewRun(recorder.RunUpcoming), nil, upcoming)
		return notifier.FormatUpcoming(strings.ToUpper(args[0]), upcoming)
	case "/analyze":
		if len(args) != 2 {
			return "用法: /analyze TICKER YYYY-MM-DD"
		}
		date, err := time.Parse("2006-01-02", args[1])
		if err != nil {
			return fmt.Sprintf("日期格式错误: %s", args[1])
		}
		res := s.Analyzer.AnalyzeEvent(ctx, args[0], "", date)
		s.record(recorder.NewRun(recorder.RunAnalyze), []model.EventAnalysisResult{res}, nil)
		return notifier.FormatAnalysis(res)
	case "/quote":
		if len(args) != 1 {
			return "用法: /quote TICKER"
		}
		if s.Quotes == nil {
			return "行情服务未启用"
		}
		q, err := s.Quotes.Quote(ctx, args[0])
		if err != nil {
			logger.Warn("quote %s: %v", args[0], err)
			return fmt.Sprintf("暂无 %s 行情数据", html.EscapeString(strings.ToUpper(args[0])))
		}
		return notifier.FormatQuote(q)
	case "/watchlist":
		if len(s.Watchlist) == 0 {
			return "关注列表为空"
		}
		return "关注列表: " + strings.Join(s.Watchlist, ", ")
	case "/refresh":
		s.refreshTask()
		return ""
	default:
		return helpText
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		logger.Error("send notification: %v", err)
	}
}
