package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"StockVault/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	log zerolog.Logger
	mu  sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at    INTEGER NOT NULL,
			mode          TEXT,
			elapsed_ms    INTEGER,
			success_count INTEGER,
			warning_count INTEGER,
			failure_count INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS symbol_results (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id  INTEGER NOT NULL,
			symbol  TEXT NOT NULL,
			outcome TEXT NOT NULL,
			reason  TEXT,
			FOREIGN KEY(run_id) REFERENCES runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON symbol_results(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts the run row and its per-symbol results in one transaction.
func (r *SQLiteRecorder) RecordRun(summary *model.RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	success, warning, failure := summary.Counts()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs
		(started_at, mode, elapsed_ms, success_count, warning_count, failure_count)
		VALUES (?,?,?,?,?,?)`,
		summary.StartedAt.Unix(), summary.Mode, summary.Elapsed.Milliseconds(),
		success, warning, failure,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for _, sr := range summary.Results {
		if _, err := tx.Exec(`INSERT INTO symbol_results (run_id, symbol, outcome, reason)
			VALUES (?,?,?,?)`,
			runID, sr.Symbol, string(sr.Outcome), sr.Reason,
		); err != nil {
			return fmt.Errorf("insert result for %s: %w", sr.Symbol, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
