// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdiddy/codefinder/pkg/types"
)

// RepoMetadata fetches /repos/{owner}/{name}. Failures come back as a
// non-ok status with zero metadata; the caller treats that as unknown.
func (c *Client) RepoMetadata(ctx context.Context, slug string) types.MetadataOutcome {
	if !validSlug(slug) {
		return types.MetadataOutcome{Status: types.FetchNotFound, Err: fmt.Errorf("invalid repository identifier %q", slug)}
	}

	resp, status, err := c.get(ctx, "repo", "/repos/"+slug, nil)
	if status != types.FetchOK {
		return types.MetadataOutcome{Status: status, Err: err}
	}
	defer resp.Body.Close()

	var raw struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Stars       int    `json:"stargazers_count"`
		Forks       int    `json:"forks_count"`
		CreatedAt   string `json:"created_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return types.MetadataOutcome{Status: types.FetchFailed, Err: fmt.Errorf("parsing repository metadata: %w", err)}
	}

	md := types.RepoMetadata{
		Name:        raw.Name,
		Description: raw.Description,
		Stars:       raw.Stars,
		Forks:       raw.Forks,
	}
	if t, err := time.Parse(time.RFC3339, raw.CreatedAt); err == nil {
		md.CreatedAt = t
	}
	return types.MetadataOutcome{Status: types.FetchOK, Metadata: md}
}
