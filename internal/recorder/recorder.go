package recorder

import (
	"github.com/google/uuid"

	"StockLens/internal/model"
)

// Run kinds.
const (
	RunAnalyze  = "analyze"
	RunPast     = "past"
	RunUpcoming = "upcoming"
	RunRefresh  = "refresh"
)

// Run groups the results produced by one command or scheduled refresh.
type Run struct {
	ID   string
	Kind string
}

// NewRun starts a run with a fresh identifier.
func NewRun(kind string) Run {
	return Run{ID: uuid.NewString(), Kind: kind}
}

// Recorder persists produced analyses for later review.
type Recorder interface {
	RecordAnalysis(run Run, res model.EventAnalysisResult) error
	RecordUpcoming(run Run, ev model.UpcomingEvent) error
	RecentAnalyses(ticker string, limit int) ([]model.EventAnalysisResult, error)
	Close() error
}
