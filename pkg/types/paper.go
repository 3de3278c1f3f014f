// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the codefinder pipeline:
// paper records coming in, candidate repositories returned by the search
// collaborator, and the assignments handed to reporting.
//
// See docs/ARCHITECTURE.md § Data Model.
package types

import "strings"

// PaperRecord is a normalized publication record. It is immutable input to
// the resolution engine.
type PaperRecord struct {
	// Title is the paper title as listed by the venue.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract; it may be empty for listing-page sources.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Venue is the conference or journal short name (e.g. "CVPR").
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`
}

// FirstAuthor returns "Name et al." for multi-author papers, the single
// author otherwise, and "Unknown" when no author is known.
func (p PaperRecord) FirstAuthor() string {
	switch len(p.Authors) {
	case 0:
		return "Unknown"
	case 1:
		return p.Authors[0]
	default:
		return p.Authors[0] + " et al."
	}
}

// KeywordSet is an ordered, case-insensitively deduplicated list of search
// terms derived from a title. It never holds more than MaxKeywords entries.
type KeywordSet []string

// MaxKeywords caps the size of a KeywordSet.
const MaxKeywords = 6

// Primary returns the most important keyword, or "" for an empty set.
func (k KeywordSet) Primary() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

// Lower returns the keywords lower-cased, preserving order.
func (k KeywordSet) Lower() []string {
	out := make([]string, len(k))
	for i, kw := range k {
		out[i] = strings.ToLower(kw)
	}
	return out
}
