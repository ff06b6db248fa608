package recorder

import "StockLens/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAnalysis(Run, model.EventAnalysisResult) error { return nil }
func (n *NoopRecorder) RecordUpcoming(Run, model.UpcomingEvent) error       { return nil }
func (n *NoopRecorder) RecentAnalyses(string, int) ([]model.EventAnalysisResult, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
