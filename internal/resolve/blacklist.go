// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/codefinder/pkg/types"
)

// defaultBlacklist holds curated wrong matches observed in past runs.
var defaultBlacklist = []types.BlacklistEntry{
	{
		TitleSubstring: "Frame Interpolation",
		ForbiddenRepos: []string{"google-research/frame-interpolation", "frame-interpolation"},
	},
	{
		TitleSubstring: "Robust 3D Shape",
		ForbiddenRepos: []string{"RobustVideoMatting", "robustmatting"},
	},
	{
		TitleSubstring: "Paint by Example",
		ForbiddenRepos: []string{"stable-diffusion", "controlnet"},
	},
}

// Blacklist maps title substrings to repositories that must never be
// assigned to matching papers. Matching is case-insensitive on both sides.
type Blacklist struct {
	entries []types.BlacklistEntry
}

// NewBlacklist returns a blacklist holding entries.
func NewBlacklist(entries ...types.BlacklistEntry) Blacklist {
	return Blacklist{entries: append([]types.BlacklistEntry(nil), entries...)}
}

// DefaultBlacklist returns the built-in curated blacklist.
func DefaultBlacklist() Blacklist {
	return NewBlacklist(defaultBlacklist...)
}

// blacklistFile is the on-disk layout of a blacklist file.
type blacklistFile struct {
	Entries []types.BlacklistEntry `yaml:"entries"`
}

// LoadBlacklist reads extra entries from a YAML file of the form
//
//	entries:
//	  - title_substring: Paint by Example
//	    forbidden_repos: [stable-diffusion]
func LoadBlacklist(path string) (Blacklist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Blacklist{}, fmt.Errorf("reading blacklist %s: %w", path, err)
	}
	var f blacklistFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Blacklist{}, fmt.Errorf("parsing blacklist %s: %w", path, err)
	}
	for i, e := range f.Entries {
		if strings.TrimSpace(e.TitleSubstring) == "" {
			return Blacklist{}, fmt.Errorf("blacklist %s: entry %d has an empty title_substring", path, i)
		}
	}
	return NewBlacklist(f.Entries...), nil
}

// Merge returns a blacklist holding the entries of b followed by other.
func (b Blacklist) Merge(other Blacklist) Blacklist {
	return NewBlacklist(append(append([]types.BlacklistEntry(nil), b.entries...), other.entries...)...)
}

// Entries returns a copy of the blacklist entries.
func (b Blacklist) Entries() []types.BlacklistEntry {
	return append([]types.BlacklistEntry(nil), b.entries...)
}

// ForTitle returns the union of forbidden repositories for every entry
// whose title substring occurs in title.
func (b Blacklist) ForTitle(title string) Forbidden {
	lt := strings.ToLower(title)
	f := Forbidden{}
	for _, e := range b.entries {
		if e.TitleSubstring == "" || !strings.Contains(lt, strings.ToLower(e.TitleSubstring)) {
			continue
		}
		for _, r := range e.ForbiddenRepos {
			f[strings.ToLower(strings.Trim(r, "/ "))] = struct{}{}
		}
	}
	return f
}

// Forbidden is a set of lower-cased short names and owner/name paths.
type Forbidden map[string]struct{}

// Contains reports whether the candidate's short name or owner/name path
// is forbidden.
func (f Forbidden) Contains(repo types.CandidateRepository) bool {
	if len(f) == 0 {
		return false
	}
	name := repo.Name
	if name == "" {
		name = types.RepoShortName(repo.HTMLURL)
	}
	return f.match(name, repo.Slug())
}

// ContainsURL reports whether the repository at repoURL is forbidden.
func (f Forbidden) ContainsURL(repoURL string) bool {
	if len(f) == 0 {
		return false
	}
	return f.match(types.RepoShortName(repoURL), types.RepoSlug(repoURL))
}

func (f Forbidden) match(name, slug string) bool {
	if _, ok := f[strings.ToLower(name)]; ok {
		return true
	}
	_, ok := f[strings.ToLower(slug)]
	return ok
}
