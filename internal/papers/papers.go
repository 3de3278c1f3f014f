// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package papers loads publication records from YAML or JSON files and
// filters them by topic keywords.
package papers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/codefinder/pkg/types"
)

var (
	// ErrNoPapers is returned when an input file holds no records.
	ErrNoPapers = errors.New("no papers in input")

	// ErrInvalidPaper is returned for a record without a title.
	ErrInvalidPaper = errors.New("invalid paper record")
)

// File is the on-disk layout of a paper list. A bare list of records is
// accepted as well.
type File struct {
	Venue  string              `json:"venue,omitempty" yaml:"venue,omitempty"`
	Papers []types.PaperRecord `json:"papers" yaml:"papers"`
}

// Load reads paper records from path. Files ending in .json are decoded as
// JSON, everything else as YAML. A venue set at file level is copied to
// records without one.
func Load(path string) ([]types.PaperRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading papers file: %w", err)
	}
	records, err := Parse(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Parse decodes a paper list and validates every record.
func Parse(data []byte, isJSON bool) ([]types.PaperRecord, error) {
	var f File
	trimmed := bytes.TrimSpace(data)
	isList := bytes.HasPrefix(trimmed, []byte("[")) || bytes.HasPrefix(trimmed, []byte("- "))

	var err error
	switch {
	case isJSON && isList:
		err = json.Unmarshal(trimmed, &f.Papers)
	case isJSON:
		err = json.Unmarshal(trimmed, &f)
	case isList:
		err = yaml.Unmarshal(trimmed, &f.Papers)
	default:
		err = yaml.Unmarshal(trimmed, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing papers: %w", err)
	}

	if len(f.Papers) == 0 {
		return nil, ErrNoPapers
	}
	for i := range f.Papers {
		p := &f.Papers[i]
		p.Title = strings.Join(strings.Fields(p.Title), " ")
		if p.Title == "" {
			return nil, fmt.Errorf("record %d: %w: empty title", i+1, ErrInvalidPaper)
		}
		if p.Venue == "" {
			p.Venue = f.Venue
		}
	}
	return f.Papers, nil
}

// FromTitles builds records from bare titles, skipping blank ones.
func FromTitles(titles []string) []types.PaperRecord {
	var out []types.PaperRecord
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, types.PaperRecord{Title: t})
		}
	}
	return out
}

// LoadTopics reads one topic keyword per line. Blank lines and lines
// starting with # are ignored.
func LoadTopics(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening topics file: %w", err)
	}
	defer f.Close()

	var topics []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		topics = append(topics, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading topics file: %w", err)
	}
	return topics, nil
}

// Match pairs a paper with the topics it matched.
type Match struct {
	Paper  types.PaperRecord `json:"paper" yaml:"paper"`
	Topics []string          `json:"topics" yaml:"topics"`
}

// FilterByTopics keeps the papers whose title or abstract contains any
// topic as a whole word, case-insensitively. With no topics every paper is
// kept without topic labels.
func FilterByTopics(records []types.PaperRecord, topics []string) []Match {
	patterns := make([]*regexp.Regexp, 0, len(topics))
	var names []string
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(t)+`\b`))
		names = append(names, t)
	}

	var out []Match
	for _, p := range records {
		if len(patterns) == 0 {
			out = append(out, Match{Paper: p})
			continue
		}
		text := p.Title + " " + p.Abstract
		var matched []string
		for i, re := range patterns {
			if re.MatchString(text) {
				matched = append(matched, names[i])
			}
		}
		if len(matched) > 0 {
			out = append(out, Match{Paper: p, Topics: matched})
		}
	}
	return out
}

// Papers returns the records of matches in order.
func Papers(matches []Match) []types.PaperRecord {
	out := make([]types.PaperRecord, len(matches))
	for i, m := range matches {
		out[i] = m.Paper
	}
	return out
}
