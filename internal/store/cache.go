// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/codefinder/pkg/types"
)

// Searcher runs one repository search.
type Searcher interface {
	SearchRepositories(ctx context.Context, query string, perPage int) types.SearchOutcome
}

// CachedSearch reads a cached search outcome no older than ttl. The second
// return value is false on a miss.
func (s *Store) CachedSearch(ctx context.Context, query string, perPage int, ttl time.Duration) (types.SearchOutcome, bool, error) {
	var status, body, fetched string
	err := s.db.QueryRowContext(ctx,
		`SELECT status, body, fetched_at FROM search_cache WHERE query = ? AND per_page = ?`,
		query, perPage,
	).Scan(&status, &body, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return types.SearchOutcome{}, false, nil
	}
	if err != nil {
		return types.SearchOutcome{}, false, fmt.Errorf("reading search cache: %w", err)
	}
	if s.now().Sub(parseTime(fetched)) > ttl {
		return types.SearchOutcome{}, false, nil
	}

	out := types.SearchOutcome{Status: types.FetchStatus(status)}
	if body != "" {
		if err := json.Unmarshal([]byte(body), &out.Repos); err != nil {
			return types.SearchOutcome{}, false, fmt.Errorf("decoding cached search: %w", err)
		}
	}
	return out, true, nil
}

// PutSearch caches a definitive search outcome. Transient failures are
// never cached.
func (s *Store) PutSearch(ctx context.Context, query string, perPage int, out types.SearchOutcome) error {
	if out.Status != types.FetchOK && out.Status != types.FetchEmpty {
		return nil
	}
	body, err := json.Marshal(out.Repos)
	if err != nil {
		return fmt.Errorf("encoding search: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO search_cache (query, per_page, status, body, fetched_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(query, per_page) DO UPDATE SET
			status=excluded.status, body=excluded.body, fetched_at=excluded.fetched_at`,
		query, perPage, string(out.Status), string(body), formatTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("writing search cache: %w", err)
	}
	return nil
}

// PurgeSearches deletes cached searches older than ttl and returns how many
// were removed.
func (s *Store) PurgeSearches(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := formatTime(s.now().Add(-ttl))
	res, err := s.db.ExecContext(ctx, `DELETE FROM search_cache WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging search cache: %w", err)
	}
	return res.RowsAffected()
}

// CachingSearcher serves repeated queries from the store so that re-running
// a batch sees the same search results.
type CachingSearcher struct {
	next   Searcher
	store  *Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachingSearcher wraps next with a cache of the given TTL. A zero TTL
// passes every query through.
func NewCachingSearcher(next Searcher, store *Store, ttl time.Duration, logger *zap.Logger) *CachingSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingSearcher{next: next, store: store, ttl: ttl, logger: logger}
}

// SearchRepositories implements Searcher.
func (c *CachingSearcher) SearchRepositories(ctx context.Context, query string, perPage int) types.SearchOutcome {
	if c.ttl <= 0 {
		return c.next.SearchRepositories(ctx, query, perPage)
	}

	out, hit, err := c.store.CachedSearch(ctx, query, perPage, c.ttl)
	if err != nil {
		c.logger.Warn("search cache read failed", zap.String("query", query), zap.Error(err))
	}
	if hit {
		c.logger.Debug("search cache hit", zap.String("query", query))
		return out
	}

	out = c.next.SearchRepositories(ctx, query, perPage)
	if err := c.store.PutSearch(ctx, query, perPage, out); err != nil {
		c.logger.Warn("search cache write failed", zap.String("query", query), zap.Error(err))
	}
	return out
}
