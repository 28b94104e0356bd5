// Package storage persists finished level runs in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/chaimleib/antares/engine/save"
)

// Store manages the SQLite database connection for run results.
type Store struct {
	db *sql.DB
}

// Run is one stored level run.
type Run struct {
	ID        int64
	Scenario  string
	Level     string
	Winner    string
	Ticks     int64
	Score     int32
	Record    *save.Record
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scenario TEXT NOT NULL,
			level TEXT NOT NULL,
			winner TEXT NOT NULL DEFAULT '',
			ticks INTEGER NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			record TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level ON runs(level);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(level, score DESC, ticks ASC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run of the scenario in directory scenario. The stored
// score is the first admiral's first score slot. Returns the ID of the
// inserted record.
func (s *Store) SaveRun(scenario string, rec save.Record) (int64, error) {
	data, err := jsonRecord(rec)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode record: %w", err)
	}
	var score int32
	if len(rec.Admirals) > 0 {
		score = rec.Admirals[0].Score[0]
	}

	result, err := s.db.Exec(
		`INSERT INTO runs (scenario, level, winner, ticks, score, record)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		scenario, rec.Level, rec.WinnerName, rec.Ticks, score, data,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, scenario, level, winner, ticks, score, record, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// BestRuns returns the top runs of a level by score, faster runs first on
// equal scores.
func (s *Store) BestRuns(level string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, scenario, level, winner, ticks, score, record, created_at
		 FROM runs
		 WHERE level = ?
		 ORDER BY score DESC, ticks ASC
		 LIMIT ?`,
		level, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// Run returns the run with the given ID, or nil if there is none.
func (s *Store) Run(id int64) (*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, scenario, level, winner, ticks, score, record, created_at
		 FROM runs
		 WHERE id = ?`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}

// ClearRuns deletes every run of a level.
func (s *Store) ClearRuns(level string) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE level = ?", level); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var record string
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Scenario, &r.Level, &r.Winner, &r.Ticks, &r.Score, &record, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec, err := save.Load([]byte(record))
		if err != nil {
			return nil, fmt.Errorf("storage: run %d: %w", r.ID, err)
		}
		r.Record = rec
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func jsonRecord(rec save.Record) (string, error) {
	if rec.Version == 0 {
		return "", errors.New("record has no version")
	}
	data, err := save.Encode(rec)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
