package recorder

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Debug().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL UNIQUE,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			period       TEXT,
			source       TEXT,
			row_count    INTEGER,
			first_date   TEXT,
			last_date    TEXT,
			last_close   REAL,
			ma_short     REAL,
			ma_long      REAL,
			short_window INTEGER,
			long_window  INTEGER,
			patterns     INTEGER,
			last_pattern TEXT,
			csv_path     TEXT,
			chart_path   TEXT,
			parquet_path TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol_ts ON analysis_runs(symbol, timestamp)`,
	}

	return execAll(r.db, stmts)
}

func execAll(db *sql.DB, stmts []string) error {
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("exec %.40q: %w", s, err)
		}
	}
	return nil
}

// nullable maps NaN to SQL NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// RecordRun stores snap, assigning a run ID and timestamp when missing.
func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if snap.RunID == "" {
		snap.RunID = uuid.NewString()
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now()
	}

	_, err := r.db.Exec(`INSERT INTO analysis_runs
		(run_id, timestamp, symbol, period, source, row_count, first_date, last_date,
		 last_close, ma_short, ma_long, short_window, long_window,
		 patterns, last_pattern, csv_path, chart_path, parquet_path)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		snap.RunID, snap.Timestamp.Unix(), snap.Symbol, snap.Period, snap.Source, snap.Rows,
		snap.FirstDate.Format(dateLayout), snap.LastDate.Format(dateLayout),
		snap.LastClose, nullable(snap.MAShort), nullable(snap.MALong),
		snap.ShortWindow, snap.LongWindow,
		snap.Patterns, snap.LastPattern, snap.CSVPath, snap.ChartPath, snap.ParquetPath,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first. An empty symbol matches all.
func (r *SQLiteRecorder) RecentRuns(symbol string, limit int) ([]RunSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT run_id, timestamp, symbol, period, source, row_count,
			first_date, last_date, last_close, ma_short, ma_long,
			short_window, long_window, patterns, last_pattern,
			csv_path, chart_path, parquet_path
		FROM analysis_runs
		WHERE ? = '' OR symbol = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, symbol, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSnapshot
	for rows.Next() {
		var (
			s               RunSnapshot
			ts              int64
			first, last     string
			maShort, maLong sql.NullFloat64
		)
		if err := rows.Scan(&s.RunID, &ts, &s.Symbol, &s.Period, &s.Source, &s.Rows,
			&first, &last, &s.LastClose, &maShort, &maLong,
			&s.ShortWindow, &s.LongWindow, &s.Patterns, &s.LastPattern,
			&s.CSVPath, &s.ChartPath, &s.ParquetPath); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.Timestamp = time.Unix(ts, 0)
		s.FirstDate, _ = time.Parse(dateLayout, first)
		s.LastDate, _ = time.Parse(dateLayout, last)
		s.MAShort, s.MALong = math.NaN(), math.NaN()
		if maShort.Valid {
			s.MAShort = maShort.Float64
		}
		if maLong.Valid {
			s.MALong = maLong.Float64
		}
		runs = append(runs, s)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Debug().Msg("closing sqlite recorder")
	return r.db.Close()
}
