// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// tokenRe splits titles into words, keeping hyphenated compounds whole.
	tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:-[\p{L}\p{N}]+)*`)

	// alnumWordRe matches runs of three or more letters or digits. Callers
	// lower-case the input first.
	alnumWordRe = regexp.MustCompile(`[\p{L}\p{N}]{3,}`)

	// alphaWordRe matches runs of letters in any script.
	alphaWordRe = regexp.MustCompile(`\p{L}+`)
)

// normalize lower-cases s and strips the separators used in repository names.
func normalize(s string) string {
	return strings.NewReplacer("-", "", "_", "", ".", "", " ", "").Replace(strings.ToLower(s))
}

// primaryConcept returns the part of the title most likely to name the
// method: the pre-colon segment, else the first three words.
func primaryConcept(title string) string {
	if head, _, ok := strings.Cut(title, ":"); ok {
		return strings.TrimSpace(head)
	}
	words := strings.Fields(title)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}

// conceptWords returns the distinctive words of the primary concept,
// lower-cased with separators removed.
func conceptWords(title string) []string {
	var out []string
	seen := map[string]bool{}
	for _, tok := range tokenRe.FindAllString(primaryConcept(title), -1) {
		w := normalize(tok)
		if utf8.RuneCountInString(w) < 3 || isStopword(w) || isGenericTerm(w) || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// significantWords returns the distinct lower-case alphabetic title words of
// three or more letters that are neither stopwords nor generic terms.
func significantWords(title string) []string {
	var out []string
	seen := map[string]bool{}
	for _, w := range alphaWordRe.FindAllString(strings.ToLower(title), -1) {
		if utf8.RuneCountInString(w) < 3 || isStopword(w) || isGenericTerm(w) || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// titleWordSet returns the lower-case alphabetic title words longer than two
// letters, generic terms excluded.
func titleWordSet(title string) map[string]bool {
	set := map[string]bool{}
	for _, w := range alphaWordRe.FindAllString(strings.ToLower(title), -1) {
		if utf8.RuneCountInString(w) > 2 && !isGenericTerm(w) {
			set[w] = true
		}
	}
	return set
}

// nameParts splits a repository name on hyphens, underscores and dots.
func nameParts(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
}

// modelName derives the name a paper gives its method: the pre-colon
// segment, else the first word, lower-cased.
func modelName(title string) string {
	if head, _, ok := strings.Cut(title, ":"); ok {
		return strings.ToLower(strings.TrimSpace(head))
	}
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

func isStopword(w string) bool {
	_, ok := stopwords[strings.ToLower(w)]
	return ok
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// countContained returns how many of words occur in s.
func countContained(s string, words []string) int {
	n := 0
	for _, w := range words {
		if w != "" && strings.Contains(s, w) {
			n++
		}
	}
	return n
}
