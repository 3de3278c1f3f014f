// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve implements the paper-to-repository resolution engine.
// For each paper it extracts keywords from the title, runs a cascade of
// GitHub searches from most to least specific, scores the results with a
// rule table and verifies the best candidate. A batch pass then removes
// repositories claimed by several papers and audits suspicious matches.
//
// See docs/ARCHITECTURE.md § Resolution.
package resolve

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/codefinder/internal/metrics"
	"github.com/pdiddy/codefinder/pkg/types"
)

// Searcher runs one repository search.
type Searcher interface {
	SearchRepositories(ctx context.Context, query string, perPage int) types.SearchOutcome
}

// Resolver runs the query cascade for papers. It keeps no per-paper state
// between calls.
type Resolver struct {
	searcher  Searcher
	verifier  *Verifier
	ranker    *Ranker
	blacklist Blacklist
	cfg       types.ResolverConfig
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for cascade diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithClock sets the reference clock for the recency rule.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// New returns a resolver searching with searcher and verifying popular
// candidates against READMEs from readmes.
func New(searcher Searcher, readmes ReadmeSource, blacklist Blacklist, cfg types.ResolverConfig, opts ...Option) *Resolver {
	if cfg.PerPage <= 0 {
		cfg.PerPage = types.DefaultPerPage
	}
	if cfg.Qualifiers == nil {
		cfg.Qualifiers = append([]string(nil), types.DefaultQualifiers...)
	}
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = types.DefaultRecentWindow
	}
	r := &Resolver{
		searcher:  searcher,
		blacklist: blacklist,
		cfg:       cfg,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.ranker = NewRanker(r.now, cfg.RecentWindow)
	r.verifier = NewVerifier(readmes, r.logger)
	return r
}

// attempt is the context of one paper's cascade.
type attempt struct {
	paper     types.PaperRecord
	keywords  types.KeywordSet
	forbidden Forbidden
	logger    *zap.Logger
}

// Resolve runs the query cascade for one paper and returns its assignment.
// A paper no query resolves gets an assignment without a repository. It
// never fails: collaborator errors count as a query without results.
func (r *Resolver) Resolve(ctx context.Context, paper types.PaperRecord) types.Assignment {
	at := attempt{
		paper:     paper,
		keywords:  ExtractKeywords(paper.Title),
		forbidden: r.blacklist.ForTitle(paper.Title),
		logger:    r.logger.With(zap.String("title", paper.Title)),
	}
	plan := PlanQueries(at.keywords, paper.Title, PlanOptions{
		Language:   r.cfg.Language,
		Qualifiers: r.cfg.Qualifiers,
	})
	at.logger.Debug("planned queries",
		zap.Strings("keywords", at.keywords),
		zap.Int("queries", len(plan)),
	)

	for _, pq := range plan {
		if ctx.Err() != nil {
			at.logger.Warn("resolution cancelled", zap.Error(ctx.Err()))
			break
		}
		if a, ok := r.try(ctx, at, pq); ok {
			metrics.RecordAssignment(true)
			return a
		}
	}
	metrics.RecordAssignment(false)
	return types.Assignment{PaperTitle: paper.Title}
}

// try runs one planned query and returns the assignment when its best
// candidate clears the threshold and the verifier.
func (r *Resolver) try(ctx context.Context, at attempt, pq PlannedQuery) (types.Assignment, bool) {
	log := at.logger.With(zap.String("strategy", string(pq.Strategy)), zap.String("query", pq.Query))
	strategy := pq.Strategy

	out := r.searcher.SearchRepositories(ctx, pq.Query, r.cfg.PerPage)
	if out.Status != types.FetchOK || len(out.Repos) == 0 {
		if out.Status.Transient() {
			log.Warn("search failed, trying next query", zap.String("status", string(out.Status)), zap.Error(out.Err))
		} else {
			log.Debug("no results")
		}
		metrics.RecordQuery(strategy, "no_results")
		return types.Assignment{}, false
	}

	ranked := r.ranker.Rank(RankInput{
		Candidates: out.Repos,
		Title:      at.paper.Title,
		Keywords:   at.keywords,
		Strategy:   pq.Strategy,
		Forbidden:  at.forbidden,
	})
	if len(ranked) == 0 {
		metrics.RecordQuery(strategy, "no_results")
		return types.Assignment{}, false
	}
	best := ranked[0]
	metrics.ObserveTopScore(strategy, best.Score)
	if best.Score < pq.Strategy.Threshold() {
		log.Debug("best candidate below threshold",
			zap.String("repo", best.Repository.Slug()),
			zap.Float64("score", best.Score),
			zap.Float64("threshold", pq.Strategy.Threshold()),
		)
		metrics.RecordQuery(strategy, "below_threshold")
		return types.Assignment{}, false
	}

	verdict := r.verifier.Verify(ctx, VerifyInput{
		Candidate: best,
		Title:     at.paper.Title,
		Keywords:  at.keywords,
		Forbidden: at.forbidden,
	})
	if !verdict.Accept {
		log.Debug("candidate rejected",
			zap.String("repo", best.Repository.Slug()),
			zap.String("reason", verdict.Reason),
		)
		metrics.RecordQuery(strategy, "rejected")
		return types.Assignment{}, false
	}

	log.Info("repository accepted",
		zap.String("repo", best.Repository.HTMLURL),
		zap.Float64("score", best.Score),
		zap.String("reason", verdict.Reason),
	)
	metrics.RecordQuery(strategy, "accepted")
	return types.Assignment{
		PaperTitle: at.paper.Title,
		RepoURL:    best.Repository.HTMLURL,
		Stars:      best.Repository.Stars,
		Verified:   true,
		Strategy:   pq.Strategy,
		Query:      pq.Query,
		Score:      best.Score,
	}, true
}

// BatchResult is the outcome of resolving a list of papers.
type BatchResult struct {
	// Assignments has one entry per input paper, in input order.
	Assignments []types.Assignment `json:"assignments" yaml:"assignments"`
	Conflicts   []Conflict         `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Clearances  []Clearance        `json:"clearances,omitempty" yaml:"clearances,omitempty"`
}

// Resolved returns the number of assignments holding a repository.
func (b BatchResult) Resolved() int {
	n := 0
	for _, a := range b.Assignments {
		if a.HasRepo() {
			n++
		}
	}
	return n
}

// ResolveBatch resolves every paper in order, then resolves repository
// conflicts across the whole batch and, when enabled, audits the result.
func (r *Resolver) ResolveBatch(ctx context.Context, papers []types.PaperRecord) BatchResult {
	assignments := make([]types.Assignment, 0, len(papers))
	for i, p := range papers {
		r.logger.Debug("resolving paper", zap.Int("index", i+1), zap.Int("total", len(papers)))
		assignments = append(assignments, r.Resolve(ctx, p))
	}

	var res BatchResult
	res.Assignments, res.Conflicts = ResolveConflicts(assignments)
	for _, c := range res.Conflicts {
		r.logger.Info("repository claimed by several papers",
			zap.String("repo", c.RepoURL),
			zap.String("winner", c.Winner),
			zap.Int("claims", len(c.Claims)),
		)
		for range c.Claims[1:] {
			metrics.RecordCleared("conflict")
		}
	}

	if r.cfg.Audit {
		res.Assignments, res.Clearances = Audit(res.Assignments, r.blacklist)
		for _, c := range res.Clearances {
			r.logger.Info("assignment cleared by audit",
				zap.String("title", c.PaperTitle),
				zap.String("repo", c.RepoURL),
				zap.String("reason", c.Reason),
			)
			metrics.RecordCleared("audit")
		}
	}
	return res
}
