// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"strings"
	"unicode/utf8"

	"github.com/xrash/smetrics"

	"github.com/pdiddy/codefinder/pkg/types"
)

// titleTokenBonus is added to a claim when any title word appears in the
// repository short name.
const titleTokenBonus = 0.3

// Claim is one paper's score for a contested repository. Index is the
// paper's position in the batch, which tells apart papers sharing a title.
type Claim struct {
	Index      int     `json:"index" yaml:"index"`
	PaperTitle string  `json:"title" yaml:"title"`
	Score      float64 `json:"score" yaml:"score"`
	Kept       bool    `json:"kept" yaml:"kept"`
}

// Conflict records a repository claimed by more than one paper and the
// paper that kept it.
type Conflict struct {
	RepoURL string  `json:"repo_url" yaml:"repo_url"`
	Winner  string  `json:"winner" yaml:"winner"`
	Claims  []Claim `json:"claims" yaml:"claims"`
}

// ResolveConflicts ensures no repository URL is assigned to more than one
// paper. For each contested URL the paper whose model name best matches
// the repository name keeps it; ties go to the earliest claimant. It
// returns a new slice and leaves in untouched.
func ResolveConflicts(in []types.Assignment) ([]types.Assignment, []Conflict) {
	out := append([]types.Assignment(nil), in...)

	claimants := map[string][]int{}
	var order []string
	for i, a := range out {
		if !a.HasRepo() {
			continue
		}
		if _, ok := claimants[a.RepoURL]; !ok {
			order = append(order, a.RepoURL)
		}
		claimants[a.RepoURL] = append(claimants[a.RepoURL], i)
	}

	var conflicts []Conflict
	for _, url := range order {
		idx := claimants[url]
		if len(idx) < 2 {
			continue
		}
		c := Conflict{RepoURL: url}
		winner, best := -1, 0.0
		for _, i := range idx {
			s := ClaimScore(out[i].PaperTitle, url)
			c.Claims = append(c.Claims, Claim{Index: i, PaperTitle: out[i].PaperTitle, Score: s})
			if winner < 0 || s > best {
				winner, best = i, s
			}
		}
		for k, i := range idx {
			if i == winner {
				c.Claims[k].Kept = true
			} else {
				out[i].Clear()
			}
		}
		c.Winner = out[winner].PaperTitle
		conflicts = append(conflicts, c)
	}
	return out, conflicts
}

// ClaimScore rates how well a paper title fits a repository: the
// similarity of the paper's model name to the repository short name, plus
// a bonus when any title word appears in that name.
func ClaimScore(title, repoURL string) float64 {
	short := types.RepoShortName(repoURL)
	score := similarity(modelName(title), short)
	for _, w := range alnumWordRe.FindAllString(strings.ToLower(title), -1) {
		if strings.Contains(short, w) {
			score += titleTokenBonus
			break
		}
	}
	return score
}

// similarity is a normalized edit-distance ratio in [0, 1]: twice the
// matching characters over the combined length, computed as an edit
// distance where a substitution costs a deletion plus an insertion.
// Characters are runes, not bytes.
func similarity(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}
	ka, kb := runeKeys(a, b)
	d := smetrics.WagnerFischer(ka, kb, 1, 1, 2)
	return max(0, 1-float64(d)/float64(total))
}

// runeKeys rewrites a and b over a one-byte alphabet, one byte per distinct
// rune, so that byte-wise distance functions compare whole characters.
// ASCII-only input is returned unchanged. Inputs with more than 256
// distinct runes are returned unchanged as well.
func runeKeys(a, b string) (string, string) {
	if isASCII(a) && isASCII(b) {
		return a, b
	}
	codes := map[rune]byte{}
	encode := func(s string) ([]byte, bool) {
		out := make([]byte, 0, len(s))
		for _, r := range s {
			c, ok := codes[r]
			if !ok {
				if len(codes) == 256 {
					return nil, false
				}
				c = byte(len(codes))
				codes[r] = c
			}
			out = append(out, c)
		}
		return out, true
	}
	ea, ok := encode(a)
	if !ok {
		return a, b
	}
	eb, ok := encode(b)
	if !ok {
		return a, b
	}
	return string(ea), string(eb)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
