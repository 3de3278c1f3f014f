// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists resolution runs in SQLite: the assignments of
// every run, the notes explaining cleared assignments, and a cache of
// GitHub search responses.
//
//	docs/ARCHITECTURE § Store.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/codefinder/pkg/types"
)

const (
	dbFile = "codefinder.db"

	// timeFormat is fixed-width so stored timestamps sort as text.
	timeFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrRunNotFound is returned when no run matches the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Store manages the codefinder SQLite database.
type Store struct {
	db      *sql.DB
	dataDir string
	now     func() time.Time
}

// Open opens or creates the database at cfg.DataDir/codefinder.db and
// creates the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = types.DefaultDataDir
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: dataDir, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DataDir returns the directory holding the database and exports.
func (s *Store) DataDir() string { return s.dataDir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			input TEXT,
			papers INTEGER NOT NULL DEFAULT 0,
			resolved INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS assignments (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			repo_url TEXT,
			stars INTEGER,
			verified INTEGER,
			strategy TEXT,
			query TEXT,
			score REAL,
			forks INTEGER,
			created_at TEXT,
			recognition REAL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_repo ON assignments(repo_url)`,
		`CREATE TABLE IF NOT EXISTS notes (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			repo_url TEXT NOT NULL,
			kind TEXT NOT NULL,
			reason TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS search_cache (
			query TEXT NOT NULL,
			per_page INTEGER NOT NULL,
			status TEXT NOT NULL,
			body TEXT,
			fetched_at TEXT NOT NULL,
			PRIMARY KEY (query, per_page)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Note explains why an assignment was cleared after resolution.
type Note struct {
	PaperTitle string `json:"title" yaml:"title"`
	RepoURL    string `json:"repo_url" yaml:"repo_url"`
	Kind       string `json:"kind" yaml:"kind"` // "conflict" or "audit"
	Reason     string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Run is one resolution run and its results in input order.
type Run struct {
	ID          string             `json:"id" yaml:"id"`
	StartedAt   time.Time          `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time          `json:"finished_at" yaml:"finished_at"`
	Input       string             `json:"input,omitempty" yaml:"input,omitempty"`
	Assignments []types.Assignment `json:"assignments" yaml:"assignments"`
	Notes       []Note             `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Resolved returns the number of assignments holding a repository.
func (r Run) Resolved() int {
	n := 0
	for _, a := range r.Assignments {
		if a.HasRepo() {
			n++
		}
	}
	return n
}

// RunSummary is a row of the run listing.
type RunSummary struct {
	ID         string    `json:"id" yaml:"id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Input      string    `json:"input,omitempty" yaml:"input,omitempty"`
	Papers     int       `json:"papers" yaml:"papers"`
	Resolved   int       `json:"resolved" yaml:"resolved"`
}

// SaveRun writes a run and its assignments in one transaction. A run
// without an ID gets a new UUID, which is returned.
func (s *Store) SaveRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = s.now()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = s.now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, input, papers, resolved)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, formatTime(run.StartedAt), formatTime(run.FinishedAt), run.Input,
		len(run.Assignments), run.Resolved(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO assignments (run_id, position, title, repo_url, stars, verified,
			strategy, query, score, forks, created_at, recognition)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range run.Assignments {
		var repoURL sql.NullString
		if a.HasRepo() {
			repoURL = sql.NullString{String: a.RepoURL, Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			run.ID, i, a.PaperTitle, repoURL, a.Stars, a.Verified,
			string(a.Strategy), a.Query, a.Score, a.Forks, formatTime(a.CreatedAt), a.Recognition,
		)
		if err != nil {
			return "", fmt.Errorf("inserting assignment %d: %w", i, err)
		}
	}

	for _, n := range run.Notes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO notes (run_id, title, repo_url, kind, reason) VALUES (?, ?, ?, ?, ?)`,
			run.ID, n.PaperTitle, n.RepoURL, n.Kind, n.Reason,
		)
		if err != nil {
			return "", fmt.Errorf("inserting note: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

// LoadRun reads a run by ID. An empty ID selects the most recent run.
func (s *Store) LoadRun(ctx context.Context, id string) (Run, error) {
	var (
		run      Run
		started  string
		finished sql.NullString
		input    sql.NullString
		row      *sql.Row
	)
	if id == "" {
		row = s.db.QueryRowContext(ctx,
			`SELECT id, started_at, finished_at, input FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`)
	} else {
		row = s.db.QueryRowContext(ctx,
			`SELECT id, started_at, finished_at, input FROM runs WHERE id = ?`, id)
	}
	if err := row.Scan(&run.ID, &started, &finished, &input); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrRunNotFound
		}
		return Run{}, fmt.Errorf("querying run: %w", err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished.String)
	run.Input = input.String

	assignments, err := s.loadAssignments(ctx, run.ID)
	if err != nil {
		return Run{}, err
	}
	run.Assignments = assignments

	notes, err := s.loadNotes(ctx, run.ID)
	if err != nil {
		return Run{}, err
	}
	run.Notes = notes
	return run, nil
}

func (s *Store) loadAssignments(ctx context.Context, runID string) ([]types.Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, repo_url, stars, verified, strategy, query, score, forks, created_at, recognition
		 FROM assignments WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying assignments: %w", err)
	}
	defer rows.Close()

	var out []types.Assignment
	for rows.Next() {
		var (
			a         types.Assignment
			repoURL   sql.NullString
			strategy  string
			createdAt string
		)
		if err := rows.Scan(&a.PaperTitle, &repoURL, &a.Stars, &a.Verified, &strategy,
			&a.Query, &a.Score, &a.Forks, &createdAt, &a.Recognition); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		a.RepoURL = repoURL.String
		a.Strategy = types.SearchStrategy(strategy)
		a.CreatedAt = parseTime(createdAt)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) loadNotes(ctx context.Context, runID string) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, repo_url, kind, reason FROM notes WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var (
			n      Note
			reason sql.NullString
		)
		if err := rows.Scan(&n.PaperTitle, &n.RepoURL, &n.Kind, &reason); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		n.Reason = reason.String
		out = append(out, n)
	}
	return out, rows.Err()
}

// ListRuns returns all runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, input, papers, resolved
		 FROM runs ORDER BY started_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			r               RunSummary
			started         string
			finished, input sql.NullString
		)
		if err := rows.Scan(&r.ID, &started, &finished, &input, &r.Papers, &r.Resolved); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished.String)
		r.Input = input.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// RepoClaims returns how many stored assignments across all runs point at
// repoURL.
func (s *Store) RepoClaims(ctx context.Context, repoURL string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM assignments WHERE repo_url = ?`, repoURL,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting claims: %w", err)
	}
	return n, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
