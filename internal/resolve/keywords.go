// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/codefinder/pkg/types"
)

var (
	acronymRe   = regexp.MustCompile(`^\p{Lu}{2,}\p{N}*$`)
	mixedCaseRe = regexp.MustCompile(`\p{Ll}.*\p{Lu}`)
)

// ExtractKeywords derives an ordered keyword set from a paper title. Terms
// are gathered in priority order: capitalized or hyphenated terms before the
// colon, all-caps acronyms, mixed-case identifiers, technical terms carrying
// a digit or hyphen, then the remaining alphabetic words. Stopwords are
// removed; if that leaves nothing, the unfiltered terms are used instead.
func ExtractKeywords(title string) types.KeywordSet {
	tokens := tokenRe.FindAllString(title, -1)
	var beforeColon []string
	if head, _, ok := strings.Cut(title, ":"); ok {
		beforeColon = tokenRe.FindAllString(head, -1)
	}

	var proper, acronyms, mixed, technical, generic, allWords []string
	for _, t := range beforeColon {
		if isProperTerm(t) {
			proper = append(proper, t)
		}
	}
	for _, t := range tokens {
		if acronymRe.MatchString(t) {
			acronyms = append(acronyms, t)
		}
		if mixedCaseRe.MatchString(t) {
			mixed = append(mixed, t)
		}
		if isTechnicalTerm(t) {
			technical = append(technical, t)
		}
		if isAlpha(t) {
			lw := strings.ToLower(t)
			allWords = append(allWords, lw)
			if utf8.RuneCountInString(lw) > 2 {
				generic = append(generic, lw)
			}
		}
	}

	filtered := dedupeKeywords(
		dropStopwords(proper), dropStopwords(acronyms), dropStopwords(mixed),
		dropStopwords(technical), dropStopwords(generic),
	)
	if len(filtered) > 0 {
		return filtered
	}
	return dedupeKeywords(proper, acronyms, mixed, technical, allWords)
}

func isProperTerm(t string) bool {
	if utf8.RuneCountInString(t) < 2 || !hasLetter(t) {
		return false
	}
	first, _ := utf8.DecodeRuneInString(t)
	return unicode.IsUpper(first) || strings.Contains(t, "-")
}

func isTechnicalTerm(t string) bool {
	return hasLetter(t) && (strings.IndexFunc(t, unicode.IsDigit) >= 0 || strings.Contains(t, "-"))
}

func hasLetter(t string) bool {
	return strings.IndexFunc(t, unicode.IsLetter) >= 0
}

func isAlpha(t string) bool {
	return t != "" && strings.IndexFunc(t, func(r rune) bool { return !unicode.IsLetter(r) }) < 0
}

func dropStopwords(terms []string) []string {
	out := terms[:0:0]
	for _, t := range terms {
		if !isStopword(t) {
			out = append(out, t)
		}
	}
	return out
}

// dedupeKeywords concatenates the buckets, dropping case-insensitive
// duplicates and stopping at types.MaxKeywords.
func dedupeKeywords(buckets ...[]string) types.KeywordSet {
	var out types.KeywordSet
	seen := map[string]bool{}
	for _, bucket := range buckets {
		for _, t := range bucket {
			key := strings.ToLower(t)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, t)
			if len(out) == types.MaxKeywords {
				return out
			}
		}
	}
	return out
}
