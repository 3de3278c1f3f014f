package resolve

import (
	"context"
	"time"

	"github.com/pdiddy/codefinder/pkg/types"
)

const biformerTitle = "BiFormer: Vision Transformer with Bi-Level Routing Attention"

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func biformerRepo() types.CandidateRepository {
	return types.CandidateRepository{
		Name:        "biformer",
		FullName:    "rayleizhu/biformer",
		Description: "Official PyTorch implementation of BiFormer (CVPR 2023)",
		HTMLURL:     "https://github.com/rayleizhu/biformer",
		Stars:       800,
		UpdatedAt:   fixedNow.AddDate(0, 0, -30),
	}
}

func repo(name string, stars int, desc string) types.CandidateRepository {
	return types.CandidateRepository{
		Name:        name,
		FullName:    "someone/" + name,
		Description: desc,
		HTMLURL:     "https://github.com/someone/" + name,
		Stars:       stars,
	}
}

// --- fake collaborators ---

type fakeSearcher struct {
	results  map[string]types.SearchOutcome
	fallback *types.SearchOutcome
	calls    []string
}

func (f *fakeSearcher) SearchRepositories(_ context.Context, query string, _ int) types.SearchOutcome {
	f.calls = append(f.calls, query)
	if out, ok := f.results[query]; ok {
		return out
	}
	if f.fallback != nil {
		return *f.fallback
	}
	return types.SearchOutcome{Status: types.FetchEmpty}
}

type fakeReadmes struct {
	outcomes map[string]types.ReadmeOutcome
	calls    []string
}

func (f *fakeReadmes) Readme(_ context.Context, slug string) types.ReadmeOutcome {
	f.calls = append(f.calls, slug)
	if out, ok := f.outcomes[slug]; ok {
		return out
	}
	return types.ReadmeOutcome{Status: types.FetchNotFound}
}

func found(repos ...types.CandidateRepository) types.SearchOutcome {
	return types.SearchOutcome{Status: types.FetchOK, Repos: repos}
}
