// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"time"
)

// Assignment is the final paper-to-repository resolution for one paper.
// An empty RepoURL means the paper resolved to no repository; it is
// serialized to JSON as null.
type Assignment struct {
	// PaperTitle is the title of the paper this assignment belongs to.
	PaperTitle string `json:"title" yaml:"title"`

	// RepoURL is the accepted repository HTML URL, or "" for none.
	RepoURL string `json:"repo_url" yaml:"repo_url"`

	// Stars is the repository star count at resolution time.
	Stars int `json:"stars" yaml:"stars"`

	// Verified reports whether the relevance verifier accepted the candidate.
	Verified bool `json:"verified" yaml:"verified"`

	// Strategy is the cascade tier that produced the match.
	Strategy SearchStrategy `json:"strategy,omitempty" yaml:"strategy,omitempty"`

	// Query is the search string that produced the match.
	Query string `json:"query,omitempty" yaml:"query,omitempty"`

	// Score is the ranker score of the accepted candidate.
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`

	// Forks and CreatedAt are filled by metadata enrichment when available.
	Forks     int       `json:"forks,omitempty" yaml:"forks,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`

	// Recognition is the combined popularity score used for reporting.
	Recognition float64 `json:"recognition" yaml:"recognition"`
}

// HasRepo reports whether the assignment holds a repository.
func (a Assignment) HasRepo() bool { return a.RepoURL != "" }

// Clear drops the repository from the assignment. A cleared assignment is
// never re-populated within the same run.
func (a *Assignment) Clear() {
	a.RepoURL = ""
	a.Stars = 0
	a.Verified = false
	a.Forks = 0
	a.CreatedAt = time.Time{}
	a.Recognition = 0
}

// MarshalJSON renders an empty RepoURL as null.
func (a Assignment) MarshalJSON() ([]byte, error) {
	type plain Assignment
	out := struct {
		plain
		RepoURL *string `json:"repo_url"`
	}{plain: plain(a)}
	if a.RepoURL != "" {
		url := a.RepoURL
		out.RepoURL = &url
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts null or a string for repo_url.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	type plain Assignment
	in := struct {
		*plain
		RepoURL *string `json:"repo_url"`
	}{plain: (*plain)(a)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	a.RepoURL = ""
	if in.RepoURL != nil {
		a.RepoURL = *in.RepoURL
	}
	return nil
}

// BlacklistEntry lists repositories known to be wrong matches for any paper
// whose title contains TitleSubstring. ForbiddenRepos holds short names or
// owner/name paths.
type BlacklistEntry struct {
	TitleSubstring string   `json:"title_substring" yaml:"title_substring"`
	ForbiddenRepos []string `json:"forbidden_repos" yaml:"forbidden_repos"`
}
