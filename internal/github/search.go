// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/codefinder/pkg/types"
)

// SearchRepositories queries /search/repositories ordered by stars,
// descending, and returns at most perPage candidates. A zero perPage uses
// the configured default.
func (c *Client) SearchRepositories(ctx context.Context, query string, perPage int) types.SearchOutcome {
	if query == "" {
		return types.SearchOutcome{Status: types.FetchEmpty}
	}
	if perPage <= 0 {
		perPage = c.cfg.PerPage
	}
	if perPage > 100 {
		perPage = 100
	}

	params := url.Values{
		"q":        {query},
		"sort":     {"stars"},
		"order":    {"desc"},
		"per_page": {strconv.Itoa(perPage)},
	}

	resp, status, err := c.get(ctx, "search", "/search/repositories", params)
	if status != types.FetchOK {
		if err != nil {
			c.logger.Debug("repository search failed", zap.String("query", query), zap.Error(err))
		}
		return types.SearchOutcome{Status: status, Err: err}
	}
	defer resp.Body.Close()

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return types.SearchOutcome{Status: types.FetchFailed, Err: fmt.Errorf("parsing search response: %w", err)}
	}

	var repos []types.CandidateRepository
	for _, item := range sr.Items {
		if item.HTMLURL == "" || item.Name == "" {
			continue
		}
		repos = append(repos, item.candidate())
		if len(repos) == perPage {
			break
		}
	}
	if len(repos) == 0 {
		return types.SearchOutcome{Status: types.FetchEmpty}
	}
	return types.SearchOutcome{Status: types.FetchOK, Repos: repos}
}

// GitHub search JSON structures. Timestamps are kept as strings so a
// malformed value drops only that field.
type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []searchItem `json:"items"`
}

type searchItem struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	HTMLURL     string `json:"html_url"`
	Stars       int    `json:"stargazers_count"`
	UpdatedAt   string `json:"updated_at"`
}

func (i searchItem) candidate() types.CandidateRepository {
	c := types.CandidateRepository{
		Name:        i.Name,
		FullName:    i.FullName,
		Description: i.Description,
		HTMLURL:     i.HTMLURL,
		Stars:       i.Stars,
	}
	if t, err := time.Parse(time.RFC3339, i.UpdatedAt); err == nil {
		c.UpdatedAt = t
	}
	return c
}
