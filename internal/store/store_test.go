package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/codefinder/pkg/types"
)

// --- test helpers ---

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{DataDir: filepath.Join(t.TempDir(), "data")})
	require.NoError(t, err)
	s.now = func() time.Time { return t0 }
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleAssignments() []types.Assignment {
	return []types.Assignment{
		{
			PaperTitle:  "BiFormer: Vision Transformer with Bi-Level Routing Attention",
			RepoURL:     "https://github.com/rayleizhu/BiFormer",
			Stars:       800,
			Verified:    true,
			Strategy:    types.StrategyExact,
			Query:       `"BiFormer" language:python`,
			Score:       44.5,
			Forks:       60,
			CreatedAt:   time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
			Recognition: 10.12,
		},
		{PaperTitle: "A Survey of Deep Learning"},
	}
}

// --- runs ---

func TestSaveAndLoadRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, Run{
		Input:       "papers.yaml",
		Assignments: sampleAssignments(),
		Notes:       []Note{{PaperTitle: "X", RepoURL: "https://github.com/a/b", Kind: "conflict"}},
	})
	require.NoError(t, err)
	assert.Len(t, id, 36)

	run, err := s.LoadRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, "papers.yaml", run.Input)
	assert.True(t, run.StartedAt.Equal(t0))
	assert.Equal(t, sampleAssignments(), run.Assignments)
	assert.Equal(t, []Note{{PaperTitle: "X", RepoURL: "https://github.com/a/b", Kind: "conflict"}}, run.Notes)
	assert.Equal(t, 1, run.Resolved())
}

func TestLoadLatestRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.SaveRun(ctx, Run{ID: "old", StartedAt: t0.Add(-time.Hour)})
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, Run{ID: "new", StartedAt: t0, Assignments: sampleAssignments()})
	require.NoError(t, err)

	run, err := s.LoadRun(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "new", run.ID)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, 2, runs[0].Papers)
	assert.Equal(t, 1, runs[0].Resolved)
	assert.Equal(t, "old", runs[1].ID)
}

func TestLoadRunNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.LoadRun(context.Background(), "")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = s.LoadRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSaveRunDuplicateID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.SaveRun(ctx, Run{ID: "r1"})
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, Run{ID: "r1"})
	assert.Error(t, err)
}

func TestRepoClaims(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	for range 2 {
		_, err := s.SaveRun(ctx, Run{Assignments: sampleAssignments()})
		require.NoError(t, err)
	}
	n, err := s.RepoClaims(ctx, "https://github.com/rayleizhu/BiFormer")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestReopenKeepsData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := Open(types.StoreConfig{DataDir: dir})
	require.NoError(t, err)
	id, err := s.SaveRun(context.Background(), Run{Assignments: sampleAssignments()})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(types.StoreConfig{DataDir: dir})
	require.NoError(t, err)
	defer s.Close()
	run, err := s.LoadRun(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, run.Assignments, 2)
}

// --- export ---

func TestExportYAML(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.SaveRun(ctx, Run{Assignments: sampleAssignments()})
	require.NoError(t, err)

	path, err := s.ExportYAML(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.DataDir(), "assignments.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "repo_url: https://github.com/rayleizhu/BiFormer")
	assert.Contains(t, text, "repo_url: null")
	assert.Contains(t, text, "title: A Survey of Deep Learning")
}

func TestExportJSON(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	id, err := s.SaveRun(ctx, Run{Assignments: sampleAssignments()})
	require.NoError(t, err)

	path, err := s.ExportJSON(ctx, id)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		RunID       string            `json:"run_id"`
		Assignments []json.RawMessage `json:"assignments"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, id, doc.RunID)
	require.Len(t, doc.Assignments, 2)
	assert.True(t, strings.Contains(string(doc.Assignments[1]), `"repo_url": null`))

	var first types.Assignment
	require.NoError(t, json.Unmarshal(doc.Assignments[0], &first))
	assert.Equal(t, "https://github.com/rayleizhu/BiFormer", first.RepoURL)
}

func TestExportWithoutRuns(t *testing.T) {
	s := testStore(t)
	_, err := s.ExportJSON(context.Background(), "")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
