package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockLens/internal/logger"
	"StockLens/internal/model"
)

// SQLiteRecorder persists analyses to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS event_analyses (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id            TEXT NOT NULL,
			run_kind          TEXT NOT NULL,
			recorded_at       INTEGER NOT NULL,
			ticker            TEXT NOT NULL,
			event             TEXT,
			event_date        TEXT,
			car               REAL,
			volatility_change REAL,
			sentiment         TEXT,
			conclusion        TEXT,
			synthetic         INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_ticker ON event_analyses(ticker, recorded_at)`,

		`CREATE TABLE IF NOT EXISTS upcoming_events (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL,
			recorded_at     INTEGER NOT NULL,
			ticker          TEXT NOT NULL,
			event_type      TEXT,
			event_date      TEXT,
			expected_impact TEXT,
			synthetic       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_upcoming_ticker ON upcoming_events(ticker, recorded_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *SQLiteRecorder) RecordAnalysis(run Run, res model.EventAnalysisResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO event_analyses
		(run_id, run_kind, recorded_at, ticker, event, event_date,
		 car, volatility_change, sentiment, conclusion, synthetic)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID, run.Kind, r.now().UnixNano(), res.Ticker, res.Event, res.Date,
		res.CAR, res.VolatilityChange, string(res.Sentiment), res.Conclusion, boolInt(res.Synthetic),
	)
	return err
}

func (r *SQLiteRecorder) RecordUpcoming(run Run, ev model.UpcomingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO upcoming_events
		(run_id, recorded_at, ticker, event_type, event_date, expected_impact, synthetic)
		VALUES (?,?,?,?,?,?,?)`,
		run.ID, r.now().UnixNano(), ev.Ticker, ev.Type, ev.Date, string(ev.ExpectedImpact), boolInt(ev.Synthetic),
	)
	return err
}

// RecentAnalyses returns the newest recorded analyses for ticker.
func (r *SQLiteRecorder) RecentAnalyses(ticker string, limit int) ([]model.EventAnalysisResult, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT ticker, event, event_date, car, volatility_change,
		sentiment, conclusion, synthetic
		FROM event_analyses WHERE ticker = ?
		ORDER BY recorded_at DESC, id DESC LIMIT ?`,
		strings.ToUpper(ticker), limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var out []model.EventAnalysisResult
	for rows.Next() {
		var (
			res       model.EventAnalysisResult
			sentiment string
			synthetic int
		)
		if err := rows.Scan(&res.Ticker, &res.Event, &res.Date, &res.CAR, &res.VolatilityChange,
			&sentiment, &res.Conclusion, &synthetic); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		res.Sentiment = model.Sentiment(sentiment)
		res.Synthetic = synthetic != 0
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	logger.Info("closing sqlite recorder")
	return r.db.Close()
}
