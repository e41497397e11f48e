package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// DefaultListLimit is used when ListRuns is given a non-positive limit.
const DefaultListLimit = 20

const schema = `CREATE TABLE IF NOT EXISTS runs (
	id                 TEXT PRIMARY KEY,
	recorded_at        INTEGER NOT NULL,
	scenario           TEXT NOT NULL,
	parameters         TEXT NOT NULL,
	seed               INTEGER NOT NULL,
	future_value       TEXT NOT NULL,
	total_contribution TEXT NOT NULL,
	total_withdrawn    TEXT NOT NULL,
	final_balance      TEXT NOT NULL
)`

const index = `CREATE INDEX IF NOT EXISTS idx_runs_recorded_at ON runs(recorded_at)`

const insertRun = `INSERT INTO runs
	(id, recorded_at, scenario, parameters, seed, future_value, total_contribution, total_withdrawn, final_balance)
	VALUES (?,?,?,?,?,?,?,?,?)`

const selectRuns = `SELECT id, recorded_at, scenario, parameters, seed,
	future_value, total_contribution, total_withdrawn, final_balance
	FROM runs ORDER BY recorded_at DESC LIMIT ?`

// SQLiteRecorder stores runs in a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
	now    func() time.Time
}

// NewSQLiteRecorder opens (or creates) the database at dbPath and migrates it.
func NewSQLiteRecorder(dbPath string, logger zerolog.Logger) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r, err := newRecorder(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	r.logger.Debug().Str("path", dbPath).Msg("history database opened")
	return r, nil
}

// newRecorder wraps an open database and runs the migration.
func newRecorder(db *sql.DB, logger zerolog.Logger) (*SQLiteRecorder, error) {
	r := &SQLiteRecorder{
		db:     db,
		logger: logger.With().Str("component", "history").Logger(),
		now:    time.Now,
	}
	if err := r.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	for _, s := range []string{schema, index} {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:30], err)
		}
	}
	return nil
}

// RecordRun stores the summary and returns the stored run.
func (r *SQLiteRecorder) RecordRun(summary *domain.ScenarioSummary) (Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run := NewRun(summary, r.now())
	params, err := encodeParameters(run.Parameters)
	if err != nil {
		return Run{}, err
	}

	_, err = r.db.Exec(insertRun,
		run.ID, run.RecordedAt.Unix(), run.Scenario, params, run.Seed,
		run.FutureValue.String(), run.TotalContribution.String(),
		run.TotalWithdrawn.String(), run.FinalBalance.String(),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	r.logger.Debug().Str("id", run.ID).Str("scenario", run.Scenario).Msg("run recorded")
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (r *SQLiteRecorder) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.Query(selectRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run                                 Run
			recordedAt                          int64
			params                              string
			futureValue, contributed, withdrawn string
			finalBalance                        string
		)
		if err := rows.Scan(&run.ID, &recordedAt, &run.Scenario, &params, &run.Seed,
			&futureValue, &contributed, &withdrawn, &finalBalance); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		run.RecordedAt = time.Unix(recordedAt, 0).UTC()
		if run.Parameters, err = decodeParameters(params); err != nil {
			return nil, err
		}
		if run.FutureValue, err = decimal.NewFromString(futureValue); err != nil {
			return nil, fmt.Errorf("run %s future_value: %w", run.ID, err)
		}
		if run.TotalContribution, err = decimal.NewFromString(contributed); err != nil {
			return nil, fmt.Errorf("run %s total_contribution: %w", run.ID, err)
		}
		if run.TotalWithdrawn, err = decimal.NewFromString(withdrawn); err != nil {
			return nil, fmt.Errorf("run %s total_withdrawn: %w", run.ID, err)
		}
		if run.FinalBalance, err = decimal.NewFromString(finalBalance); err != nil {
			return nil, fmt.Errorf("run %s final_balance: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Debug().Msg("closing history database")
	return r.db.Close()
}
