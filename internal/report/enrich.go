// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/codefinder/pkg/types"
)

// MetadataSource returns repository metadata by owner/name.
type MetadataSource interface {
	RepoMetadata(ctx context.Context, slug string) types.MetadataOutcome
}

// Enricher fills star, fork and creation data for resolved assignments and
// computes their recognition scores.
type Enricher struct {
	source MetadataSource
	now    func() time.Time
	logger *zap.Logger
}

// NewEnricher returns an enricher reading from source. A nil now uses
// time.Now and a nil logger discards output.
func NewEnricher(source MetadataSource, now func() time.Time, logger *zap.Logger) *Enricher {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{source: source, now: now, logger: logger}
}

// Enrich returns a copy of assignments with metadata and recognition
// filled in. A metadata failure keeps the search-time star count.
func (e *Enricher) Enrich(ctx context.Context, assignments []types.Assignment) []types.Assignment {
	out := append([]types.Assignment(nil), assignments...)
	now := e.now()
	for i := range out {
		a := &out[i]
		if !a.HasRepo() {
			a.Recognition = 0
			continue
		}
		slug := types.RepoSlug(a.RepoURL)
		md := e.source.RepoMetadata(ctx, slug)
		if md.Status == types.FetchOK {
			a.Stars = md.Metadata.Stars
			a.Forks = md.Metadata.Forks
			a.CreatedAt = md.Metadata.CreatedAt
		} else {
			e.logger.Warn("repository metadata unavailable",
				zap.String("repo", slug),
				zap.String("status", string(md.Status)),
				zap.Error(md.Err),
			)
		}
		a.Recognition = Recognition(a.Verified, a.Stars, a.CreatedAt, now)
	}
	return out
}
