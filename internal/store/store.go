// Package store persists generation runs and their test cases in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/caseforge/caseforge/internal/testcase"
)

// Store manages database operations.
type Store struct {
	db *sql.DB
}

// Run is one persisted generation run.
type Run struct {
	ID         string             `json:"id"`
	Source     string             `json:"source"`
	InputType  testcase.InputType `json:"input_type"`
	BaseID     string             `json:"base_id"`
	TotalCases int                `json:"total_cases"`
	IsValid    bool               `json:"is_valid"`
	CreatedAt  int64              `json:"created_at"`
}

// Status summarizes stored runs for the dashboard.
type Status struct {
	Runs       int `json:"runs"`
	Cases      int `json:"cases"`
	ValidRuns  int `json:"valid_runs"`
	APIRuns    int `json:"api_runs"`
	StoryRuns  int `json:"story_runs"`
	RawRuns    int `json:"raw_runs"`
}

// Open opens a SQLite database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// InitSchema creates the database schema.
func (s *Store) InitSchema() error {
	schema := `
	-- Runs record one generation pipeline execution
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT,
		input_type TEXT NOT NULL,
		base_id TEXT NOT NULL,
		total_cases INTEGER NOT NULL,
		is_valid INTEGER NOT NULL,
		validation_errors TEXT,
		created_at INTEGER NOT NULL
	);

	-- Cases are the generated test cases of a run
	CREATE TABLE IF NOT EXISTS cases (
		id TEXT NOT NULL,
		run_id TEXT NOT NULL,
		section TEXT NOT NULL,
		seq INTEGER NOT NULL,
		title TEXT NOT NULL,
		precondition TEXT,
		steps TEXT NOT NULL,
		expected_result TEXT,
		test_data TEXT,
		priority TEXT,
		PRIMARY KEY (run_id, id),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	-- Indexes for common queries
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_cases_run ON cases(run_id);
	CREATE INDEX IF NOT EXISTS idx_cases_section ON cases(run_id, section, seq);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun persists a generation result and all of its cases transactionally.
func (s *Store) SaveRun(source string, result *testcase.GenerationResult) (*Run, error) {
	run := &Run{
		ID:         "run-" + uuid.NewString(),
		Source:     source,
		InputType:  result.InputType,
		BaseID:     result.BaseID,
		TotalCases: result.Summary.TotalCases,
		IsValid:    result.Validation.IsValid,
		CreatedAt:  time.Now().Unix(),
	}

	validationErrors, err := json.Marshal(result.Validation.Errors)
	if err != nil {
		return nil, fmt.Errorf("encoding validation errors: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, source, input_type, base_id, total_cases, is_valid, validation_errors, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Source, string(run.InputType), run.BaseID, run.TotalCases, boolToInt(run.IsValid), string(validationErrors), run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating run: %w", err)
	}

	for _, section := range testcase.Sections {
		for seq, tc := range result.TestCases[section] {
			steps, err := json.Marshal(tc.Steps)
			if err != nil {
				return nil, fmt.Errorf("encoding steps for %s: %w", tc.ID, err)
			}
			testData, err := json.Marshal(tc.TestData)
			if err != nil {
				return nil, fmt.Errorf("encoding test data for %s: %w", tc.ID, err)
			}

			_, err = tx.Exec(`
				INSERT INTO cases (id, run_id, section, seq, title, precondition, steps, expected_result, test_data, priority)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, tc.ID, run.ID, string(section), seq, tc.Title, tc.Precondition, string(steps), tc.ExpectedResult, string(testData), string(tc.Priority))
			if err != nil {
				return nil, fmt.Errorf("creating case %s: %w", tc.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return run, nil
}

// GetRun returns a single run by id.
func (s *Store) GetRun(id string) (*Run, error) {
	var run Run
	var isValid int
	err := s.db.QueryRow(`
		SELECT id, COALESCE(source, ''), input_type, base_id, total_cases, is_valid, created_at
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Source, &run.InputType, &run.BaseID, &run.TotalCases, &isValid, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}
	run.IsValid = isValid != 0
	return &run, nil
}

// ListRuns returns runs ordered newest first.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, COALESCE(source, ''), input_type, base_id, total_cases, is_valid, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var isValid int
		if err := rows.Scan(&run.ID, &run.Source, &run.InputType, &run.BaseID, &run.TotalCases, &isValid, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.IsValid = isValid != 0
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// CasesForRun reassembles the stored TestCaseSet of a run.
func (s *Store) CasesForRun(runID string) (testcase.TestCaseSet, error) {
	rows, err := s.db.Query(`
		SELECT id, section, title, COALESCE(precondition, ''), steps,
		       COALESCE(expected_result, ''), COALESCE(test_data, 'null'), COALESCE(priority, '')
		FROM cases WHERE run_id = ? ORDER BY section, seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying cases: %w", err)
	}
	defer rows.Close()

	set := testcase.TestCaseSet{}
	for _, section := range testcase.Sections {
		set[section] = []testcase.TestCase{}
	}

	for rows.Next() {
		var tc testcase.TestCase
		var section, steps, testData, priority string
		if err := rows.Scan(&tc.ID, &section, &tc.Title, &tc.Precondition, &steps, &tc.ExpectedResult, &testData, &priority); err != nil {
			return nil, fmt.Errorf("scanning case: %w", err)
		}
		if err := json.Unmarshal([]byte(steps), &tc.Steps); err != nil {
			return nil, fmt.Errorf("decoding steps for %s: %w", tc.ID, err)
		}
		if err := json.Unmarshal([]byte(testData), &tc.TestData); err != nil {
			return nil, fmt.Errorf("decoding test data for %s: %w", tc.ID, err)
		}
		tc.Type = testcase.Section(section)
		tc.Priority = testcase.Priority(priority)
		set[tc.Type] = append(set[tc.Type], tc)
	}
	return set, rows.Err()
}

// GetStatus returns aggregate counts over all stored runs.
func (s *Store) GetStatus() (*Status, error) {
	var status Status
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(total_cases), 0),
		       COALESCE(SUM(is_valid), 0),
		       COALESCE(SUM(CASE WHEN input_type = 'api' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN input_type = 'user_story' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN input_type = 'raw_text' THEN 1 ELSE 0 END), 0)
		FROM runs
	`).Scan(&status.Runs, &status.Cases, &status.ValidRuns, &status.APIRuns, &status.StoryRuns, &status.RawRuns)
	if err != nil {
		return nil, fmt.Errorf("querying status: %w", err)
	}
	return &status, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
