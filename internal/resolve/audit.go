// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/codefinder/pkg/types"
)

// Audit thresholds.
const (
	suspiciousStars = 1000
	longNameStars   = 2000
	longNameLength  = 15
	minWordOverlap  = 0.2
	modelMatchStars = 3000
)

// Clearance names an assignment the audit cleared and why.
type Clearance struct {
	PaperTitle string `json:"title" yaml:"title"`
	RepoURL    string `json:"repo_url" yaml:"repo_url"`
	Reason     string `json:"reason" yaml:"reason"`
}

// Audit re-checks accepted assignments after conflict resolution and
// clears those that look like popular generic repositories rather than
// the paper's code. It returns a new slice and leaves in untouched.
func Audit(in []types.Assignment, blacklist Blacklist) ([]types.Assignment, []Clearance) {
	out := append([]types.Assignment(nil), in...)
	var cleared []Clearance
	for i := range out {
		a := &out[i]
		if !a.HasRepo() {
			continue
		}
		if reason := auditReason(*a, blacklist); reason != "" {
			cleared = append(cleared, Clearance{PaperTitle: a.PaperTitle, RepoURL: a.RepoURL, Reason: reason})
			a.Clear()
		}
	}
	return out, cleared
}

func auditReason(a types.Assignment, blacklist Blacklist) string {
	if blacklist.ForTitle(a.PaperTitle).ContainsURL(a.RepoURL) {
		return "blacklisted"
	}

	short := types.RepoShortName(a.RepoURL)
	words := alnumWordRe.FindAllString(strings.ToLower(a.PaperTitle), -1)

	if containsAny(short, suspiciousPatterns) {
		specific := false
		for _, w := range words {
			if _, common := auditCommonWords[w]; !common && strings.Contains(short, w) {
				specific = true
				break
			}
		}
		if !specific && a.Stars > suspiciousStars {
			return "generic repository without a specific title match"
		}
	} else if len(short) > longNameLength && len(words) > 0 {
		ratio := float64(countContained(short, words)) / float64(len(words))
		if ratio < minWordOverlap && a.Stars > longNameStars {
			return "low title overlap"
		}
	}

	if a.Stars > modelMatchStars && !modelInName(a.PaperTitle, short) {
		repoWords := alnumWordRe.FindAllString(short, -1)
		title := map[string]bool{}
		for _, w := range words {
			title[w] = true
		}
		for _, w := range repoWords {
			if _, common := modelCommonWords[w]; title[w] && !common {
				return ""
			}
		}
		return "model name missing from repository"
	}
	return ""
}

// modelInName reports whether any word of the paper's model name longer
// than two characters appears in the repository short name.
func modelInName(title, short string) bool {
	for _, w := range strings.Fields(modelName(title)) {
		if utf8.RuneCountInString(w) > 2 && strings.Contains(short, w) {
			return true
		}
	}
	return false
}
