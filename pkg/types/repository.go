// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// SearchStrategy labels one tier of the query cascade. Each tier carries its
// own minimum acceptance score.
type SearchStrategy string

const (
	StrategyExact      SearchStrategy = "exact"
	StrategyContextual SearchStrategy = "contextual"
	StrategyMulti      SearchStrategy = "multi"
	StrategySingle     SearchStrategy = "single"
	StrategyGeneral    SearchStrategy = "general"
)

// Threshold returns the minimum score a candidate must reach to be accepted
// under the strategy. Unknown labels fall back to the general threshold.
func (s SearchStrategy) Threshold() float64 {
	switch s {
	case StrategyExact:
		return 18
	case StrategyContextual:
		return 15
	case StrategyMulti:
		return 12
	case StrategySingle:
		return 10
	default:
		return 8
	}
}

// CandidateRepository is a repository returned by one search query. Field
// names follow the GitHub search API.
type CandidateRepository struct {
	Name        string    `json:"name" yaml:"name"`
	FullName    string    `json:"full_name" yaml:"full_name"`
	Description string    `json:"description" yaml:"description"`
	HTMLURL     string    `json:"html_url" yaml:"html_url"`
	Stars       int       `json:"stargazers_count" yaml:"stargazers_count"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Slug returns "owner/name", derived from the HTML URL when FullName is unset.
func (c CandidateRepository) Slug() string {
	if c.FullName != "" {
		return c.FullName
	}
	return RepoSlug(c.HTMLURL)
}

// ScoredCandidate pairs a candidate with the score it received under a strategy.
type ScoredCandidate struct {
	Repository CandidateRepository `json:"repository" yaml:"repository"`
	Score      float64             `json:"score" yaml:"score"`
	Strategy   SearchStrategy      `json:"strategy" yaml:"strategy"`
}

// RepoMetadata is the subset of repository metadata used for enrichment.
type RepoMetadata struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Stars       int       `json:"stargazers_count" yaml:"stars"`
	Forks       int       `json:"forks_count" yaml:"forks"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

const githubPrefix = "https://github.com/"

// RepoSlug returns "owner/name" for a GitHub repository URL, or the trimmed
// input when it does not look like one.
func RepoSlug(repoURL string) string {
	s := strings.TrimSuffix(strings.TrimSpace(repoURL), "/")
	s = strings.TrimPrefix(s, githubPrefix)
	s = strings.TrimPrefix(s, "http://github.com/")
	return strings.TrimSuffix(s, ".git")
}

// RepoShortName returns the lower-cased last path segment of a repository URL.
func RepoShortName(repoURL string) string {
	slug := RepoSlug(repoURL)
	if i := strings.LastIndex(slug, "/"); i >= 0 {
		slug = slug[i+1:]
	}
	return strings.ToLower(slug)
}
