// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/codefinder/pkg/types"
)

// features are the per-candidate signals the scoring rules read. They are
// computed once per candidate so each rule stays a pure function.
type features struct {
	name     string
	norm     string
	parts    []string
	desc     string
	stars    int
	recent   bool
	keywords []string // normalized, for name matching
	rawKW    []string // lower-cased, for description matching
	first    string   // first keyword that is not a generic term
	concept  []string
	title    map[string]bool

	conceptHits int
	exactKWHits int
	nameKWHits  int
	descKWHits  int
}

// evidence reports whether the name carries a concept word or an exact,
// prefix or suffix keyword match.
func (f *features) evidence() bool {
	return f.conceptHits > 0 || f.exactKWHits > 0
}

func newFeatures(repo types.CandidateRepository, title string, kws types.KeywordSet, now time.Time, window time.Duration) *features {
	name := strings.ToLower(repo.Name)
	f := &features{
		name:    name,
		norm:    normalize(name),
		parts:   nameParts(name),
		desc:    strings.ToLower(repo.Description),
		stars:   repo.Stars,
		concept: conceptWords(title),
		title:   titleWordSet(title),
	}
	if !repo.UpdatedAt.IsZero() && window > 0 {
		f.recent = now.Sub(repo.UpdatedAt) <= window
	}
	for _, kw := range kws {
		n := normalize(kw)
		if utf8.RuneCountInString(n) < 2 || isGenericTerm(kw) {
			continue
		}
		if f.first == "" {
			f.first = n
		}
		f.keywords = append(f.keywords, n)
		f.rawKW = append(f.rawKW, strings.ToLower(kw))
	}

	for _, w := range f.concept {
		if strings.Contains(f.norm, w) {
			f.conceptHits++
		}
	}
	for _, k := range f.keywords {
		switch {
		case f.norm == k, strings.HasPrefix(f.norm, k), strings.HasSuffix(f.norm, k):
			f.exactKWHits++
			f.nameKWHits++
		case strings.Contains(f.norm, k):
			f.nameKWHits++
		}
	}
	f.descKWHits = countContained(f.desc, f.rawKW)
	return f
}

// rule is one named scoring contribution.
type rule struct {
	name   string
	points func(f *features) float64
}

// flat awards weight when pred holds.
func flat(name string, weight float64, pred func(f *features) bool) rule {
	return rule{name: name, points: func(f *features) float64 {
		if pred(f) {
			return weight
		}
		return 0
	}}
}

// defaultRules is the scoring table. Order only affects debug output.
var defaultRules = []rule{
	{name: "concept_in_name", points: func(f *features) float64 {
		var p float64
		for _, w := range f.concept {
			switch {
			case f.norm == w, strings.HasPrefix(f.norm, w):
				p += 15
			case strings.Contains(f.norm, w):
				p += 10
			}
		}
		return p
	}},
	{name: "keyword_in_name", points: func(f *features) float64 {
		var p float64
		for _, k := range f.keywords {
			switch {
			case f.norm == k, strings.HasPrefix(f.norm, k), strings.HasSuffix(f.norm, k):
				p += 8
			case strings.Contains(f.norm, k):
				p += 5
			}
		}
		return p
	}},
	flat("implementation_pattern", 6, func(f *features) bool {
		return containsAny(f.name, implementationPatterns)
	}),
	{name: "keyword_in_description", points: func(f *features) float64 {
		return 3 * float64(f.descKWHits)
	}},
	{name: "paper_indicator", points: func(f *features) float64 {
		if !containsAny(f.desc, paperIndicators) {
			return 0
		}
		if f.descKWHits > 0 {
			return 8
		}
		return 5
	}},
	flat("primary_keyword_in_name", 7, func(f *features) bool {
		return f.first != "" && strings.Contains(f.norm, f.first)
	}),
	{name: "stars", points: starPoints},
	flat("recently_updated", 1, func(f *features) bool { return f.recent }),
	{name: "title_overlap", points: func(f *features) float64 {
		n := 0
		for _, p := range f.parts {
			if utf8.RuneCountInString(p) > 2 && f.title[p] {
				n++
			}
		}
		switch {
		case n >= 2:
			return 4
		case n == 1:
			return 2
		}
		return 0
	}},
	flat("generic_tool", -100, func(f *features) bool {
		_, known := genericTools[f.name]
		return known && f.nameKWHits == 0
	}),
	flat("generic_name", -8, func(f *features) bool {
		return !f.evidence() && containsAny(f.name, genericNamePatterns)
	}),
	flat("popular_utility", -15, func(f *features) bool {
		return f.stars > 5000 && !f.evidence() && containsAny(f.name, utilityPatterns)
	}),
}

// starPoints is a small popularity bonus. Above 5000 stars it grows with
// log10(stars) but is capped lower when the name carries no match evidence.
func starPoints(f *features) float64 {
	switch {
	case f.stars > 5000:
		limit := 0.5
		if f.evidence() {
			limit = 1.5
		}
		return math.Min(limit, math.Log10(float64(f.stars))-3)
	case f.stars >= 1000:
		return 1
	case f.stars >= 500:
		return 0.5
	case f.stars >= 100:
		return 0.25
	}
	return 0
}

// Ranker scores candidates against a paper with a table of rules.
type Ranker struct {
	rules        []rule
	now          func() time.Time
	recentWindow time.Duration
}

// NewRanker returns a ranker using the default rule table. now supplies the
// reference time for the recency rule.
func NewRanker(now func() time.Time, recentWindow time.Duration) *Ranker {
	if now == nil {
		now = time.Now
	}
	return &Ranker{rules: defaultRules, now: now, recentWindow: recentWindow}
}

// RankInput holds one query's results and the paper they are scored against.
type RankInput struct {
	Candidates []types.CandidateRepository
	Title      string
	Keywords   types.KeywordSet
	Strategy   types.SearchStrategy
	Forbidden  Forbidden
}

// Score returns the total score of one candidate.
func (r *Ranker) Score(repo types.CandidateRepository, title string, kws types.KeywordSet) float64 {
	f := newFeatures(repo, title, kws, r.now(), r.recentWindow)
	var total float64
	for _, rl := range r.rules {
		total += rl.points(f)
	}
	return total
}

// Breakdown returns the non-zero contribution of each rule for one candidate.
func (r *Ranker) Breakdown(repo types.CandidateRepository, title string, kws types.KeywordSet) map[string]float64 {
	f := newFeatures(repo, title, kws, r.now(), r.recentWindow)
	out := map[string]float64{}
	for _, rl := range r.rules {
		if p := rl.points(f); p != 0 {
			out[rl.name] = p
		}
	}
	return out
}

// Rank scores every non-forbidden candidate and returns them best first.
// Equal scores keep search order.
func (r *Ranker) Rank(in RankInput) []types.ScoredCandidate {
	scored := make([]types.ScoredCandidate, 0, len(in.Candidates))
	for _, c := range in.Candidates {
		if in.Forbidden.Contains(c) {
			continue
		}
		scored = append(scored, types.ScoredCandidate{
			Repository: c,
			Score:      r.Score(c, in.Title, in.Keywords),
			Strategy:   in.Strategy,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Select returns the best candidate if it reaches the strategy threshold.
func (r *Ranker) Select(in RankInput) (types.ScoredCandidate, bool) {
	ranked := r.Rank(in)
	if len(ranked) == 0 || ranked[0].Score < in.Strategy.Threshold() {
		return types.ScoredCandidate{}, false
	}
	return ranked[0], true
}
