// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/codefinder/pkg/types"
)

// PlannedQuery is one search string of the cascade and the strategy whose
// threshold applies to its results.
type PlannedQuery struct {
	Query    string               `json:"query" yaml:"query"`
	Strategy types.SearchStrategy `json:"strategy" yaml:"strategy"`
}

// PlanOptions controls query construction.
type PlanOptions struct {
	// Language is appended as a language: qualifier to exact queries.
	Language string

	// Qualifiers produce one contextual query each.
	Qualifiers []string
}

// PlanQueries builds the ordered, deduplicated query cascade for a paper:
// exact phrase, contextual, multi-keyword, then single-keyword. A title
// without keywords falls back to a general query over its first words.
func PlanQueries(keywords types.KeywordSet, title string, opts PlanOptions) []PlannedQuery {
	var plan []PlannedQuery
	seen := map[string]bool{}
	add := func(q string, s types.SearchStrategy) {
		q = strings.TrimSpace(q)
		if q == "" || seen[q] {
			return
		}
		seen[q] = true
		plan = append(plan, PlannedQuery{Query: q, Strategy: s})
	}

	if len(keywords) == 0 {
		words := strings.Fields(title)
		if len(words) > 3 {
			words = words[:3]
		}
		add(strings.Join(words, " "), types.StrategyGeneral)
		return plan
	}

	first := keywords[0]
	if isExactCandidate(first) {
		q := `"` + first + `"`
		if opts.Language != "" {
			q += " language:" + opts.Language
		}
		add(q, types.StrategyExact)
	}

	lead := strings.Join(keywords[:min(2, len(keywords))], " ")
	for _, qual := range opts.Qualifiers {
		add(lead+" "+qual, types.StrategyContextual)
	}

	if len(keywords) >= 2 {
		add(lead, types.StrategyMulti)
	}
	add(first, types.StrategySingle)
	return plan
}

// isExactCandidate reports whether kw looks like a method name worth an
// exact-phrase search: longer than two characters and either capitalized
// or hyphenated.
func isExactCandidate(kw string) bool {
	if utf8.RuneCountInString(kw) <= 2 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(kw)
	return unicode.IsUpper(first) || strings.Contains(kw, "-")
}
