package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"raidcheck/internal/check"
	"raidcheck/pkg/types"
)

// DefaultPath is the default database location
const DefaultPath = "/var/lib/raidcheck/history.db"

// Store persists run verdicts and their findings
type Store struct {
	conn *sql.DB
	path string
}

// Open opens or creates the history database at the given path
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to configure history database: %w", err)
	}

	s := &Store{conn: conn, path: path}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) Path() string {
	return s.path
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started TIMESTAMP NOT NULL,
    finished TIMESTAMP NOT NULL,
    pass INTEGER NOT NULL,
    controllers INTEGER NOT NULL,
    findings INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started);

CREATE TABLE IF NOT EXISTS findings (
    id INTEGER PRIMARY KEY,
    run_id TEXT NOT NULL REFERENCES runs(id),
    controller INTEGER NOT NULL,
    category TEXT NOT NULL,
    message TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
`

func (s *Store) migrate() error {
	_, err := s.conn.Exec(schema)
	return err
}

// Run is one persisted run verdict
type Run struct {
	ID          string
	Started     time.Time
	Finished    time.Time
	Pass        bool
	Controllers int
	Findings    int
}

// FindingRecord is one persisted finding with its run context
type FindingRecord struct {
	RunID      string
	Started    time.Time
	Controller int
	Category   string
	Message    string
}

// RecordRun inserts the run row and one finding row per finding, in a
// single transaction
func (s *Store) RecordRun(runID string, result *check.HostResult) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Exec(
		"INSERT INTO runs (id, started, finished, pass, controllers, findings) VALUES (?, ?, ?, ?, ?, ?)",
		runID, result.Started, result.Finished, result.Pass,
		len(result.Controllers), len(result.Findings()))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert run: %w", err)
	}

	insert := func(controller int, f types.Finding) error {
		_, err := tx.Exec(
			"INSERT INTO findings (run_id, controller, category, message) VALUES (?, ?, ?, ?)",
			runID, controller, f.Category, f.Message)
		return err
	}
	for _, f := range result.TopologyFindings {
		if err := insert(-1, f); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert finding: %w", err)
		}
	}
	for _, ctrl := range result.Controllers {
		for _, f := range ctrl.Findings {
			if err := insert(ctrl.Index, f); err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to insert finding: %w", err)
			}
		}
	}

	return tx.Commit()
}

// RecentRuns returns up to limit runs, newest first
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.conn.Query(
		"SELECT id, started, finished, pass, controllers, findings FROM runs ORDER BY started DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Started, &r.Finished, &r.Pass, &r.Controllers, &r.Findings); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RecentFindings returns up to limit findings, newest run first,
// preserving insertion order within a run
func (s *Store) RecentFindings(limit int) ([]FindingRecord, error) {
	rows, err := s.conn.Query(`
		SELECT f.run_id, r.started, f.controller, f.category, f.message
		FROM findings f JOIN runs r ON r.id = f.run_id
		ORDER BY r.started DESC, f.id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var findings []FindingRecord
	for rows.Next() {
		var f FindingRecord
		if err := rows.Scan(&f.RunID, &f.Started, &f.Controller, &f.Category, &f.Message); err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}
	return findings, rows.Err()
}
