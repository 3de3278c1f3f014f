// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/codefinder/pkg/types"
)

// ExportEntry is one assignment as written to export files. RepoURL is
// nil for papers without a repository so both formats write null.
type ExportEntry struct {
	Title       string    `json:"title" yaml:"title"`
	RepoURL     *string   `json:"repo_url" yaml:"repo_url"`
	Stars       int       `json:"stars" yaml:"stars"`
	Verified    bool      `json:"verified" yaml:"verified"`
	Strategy    string    `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Query       string    `json:"query,omitempty" yaml:"query,omitempty"`
	Score       float64   `json:"score,omitempty" yaml:"score,omitempty"`
	Forks       int       `json:"forks,omitempty" yaml:"forks,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`
	Recognition float64   `json:"recognition" yaml:"recognition"`
}

// ExportFile is the document written by ExportYAML and ExportJSON.
type ExportFile struct {
	RunID       string        `json:"run_id" yaml:"run_id"`
	ExportedAt  time.Time     `json:"exported_at" yaml:"exported_at"`
	Assignments []ExportEntry `json:"assignments" yaml:"assignments"`
}

// ExportYAML writes a run to dataDir/assignments.yaml and returns the path.
// An empty runID exports the most recent run.
func (s *Store) ExportYAML(ctx context.Context, runID string) (string, error) {
	doc, err := s.exportFile(ctx, runID)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dataDir, "assignments.yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes a run to dataDir/assignments.json and returns the path.
// An empty runID exports the most recent run.
func (s *Store) ExportJSON(ctx context.Context, runID string) (string, error) {
	doc, err := s.exportFile(ctx, runID)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.dataDir, "assignments.json")
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportFile(ctx context.Context, runID string) (ExportFile, error) {
	run, err := s.LoadRun(ctx, runID)
	if err != nil {
		return ExportFile{}, fmt.Errorf("loading run for export: %w", err)
	}
	return ExportFile{
		RunID:       run.ID,
		ExportedAt:  s.now().UTC(),
		Assignments: ExportEntries(run.Assignments),
	}, nil
}

// ExportEntries converts assignments to export entries, preserving order.
func ExportEntries(assignments []types.Assignment) []ExportEntry {
	entries := make([]ExportEntry, len(assignments))
	for i, a := range assignments {
		entries[i] = ExportEntry{
			Title:       a.PaperTitle,
			Stars:       a.Stars,
			Verified:    a.Verified,
			Strategy:    string(a.Strategy),
			Query:       a.Query,
			Score:       a.Score,
			Forks:       a.Forks,
			CreatedAt:   a.CreatedAt,
			Recognition: a.Recognition,
		}
		if a.HasRepo() {
			url := a.RepoURL
			entries[i].RepoURL = &url
		}
	}
	return entries
}
