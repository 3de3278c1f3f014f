// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/codefinder/pkg/types"
)

const (
	// strictStars is the star count above which a candidate needs README evidence.
	strictStars = 500

	// genericRejectStars rejects unmatched utility names above this star count.
	genericRejectStars = 1000

	// obscureStars is the star count below which any keyword match is enough.
	obscureStars = 100

	// readmeWindow is the half-width of the text window searched around an
	// academic indicator.
	readmeWindow = 200
)

// ReadmeSource returns repository README text.
type ReadmeSource interface {
	Readme(ctx context.Context, slug string) types.ReadmeOutcome
}

// Verdict is the verifier's decision with a short reason for the logs.
type Verdict struct {
	Accept bool   `json:"accept"`
	Reason string `json:"reason"`
	Strict bool   `json:"strict"`
}

// VerifyInput is the candidate under test and the paper it was ranked for.
type VerifyInput struct {
	Candidate types.ScoredCandidate
	Title     string
	Keywords  types.KeywordSet
	Forbidden Forbidden
}

// Verifier decides whether a ranked candidate is genuinely the paper's
// code. Popular candidates must be backed by their README.
type Verifier struct {
	readmes ReadmeSource
	logger  *zap.Logger
}

// NewVerifier returns a verifier that fetches READMEs from readmes.
func NewVerifier(readmes ReadmeSource, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{readmes: readmes, logger: logger}
}

// Verify runs the decision sequence, stopping at the first conclusive step.
func (v *Verifier) Verify(ctx context.Context, in VerifyInput) Verdict {
	repo := in.Candidate.Repository
	name := strings.ToLower(repo.Name)
	if name == "" {
		name = types.RepoShortName(repo.HTMLURL)
	}
	norm := normalize(name)
	desc := strings.ToLower(repo.Description)

	var core, all, lowered []string
	for _, kw := range in.Keywords {
		n := normalize(kw)
		all = append(all, n)
		if isGenericTerm(kw) {
			continue
		}
		lowered = append(lowered, strings.ToLower(kw))
		if utf8.RuneCountInString(n) >= 3 {
			core = append(core, n)
		}
	}
	coreInName := countContained(norm, core) > 0

	if in.Forbidden.Contains(repo) {
		return Verdict{Reason: "blacklisted for this title"}
	}
	if _, known := genericTools[name]; known && !coreInName {
		return Verdict{Reason: "known non-paper tool"}
	}
	if containsAny(name, utilityPatterns) && !coreInName && repo.Stars > genericRejectStars {
		return Verdict{Reason: "popular generic utility without keyword match"}
	}

	conceptInName := countContained(norm, conceptWords(in.Title)) > 0
	strict := repo.Stars > strictStars && !conceptInName

	if !strict {
		if containsAny(desc, paperIndicators) && countContained(desc, lowered) > 0 {
			return Verdict{Accept: true, Reason: "description cites an implementation of the paper"}
		}
		if countContained(desc, lowered) > 0 && !trivialDescription(desc) {
			return Verdict{Accept: true, Reason: "description mentions a keyword"}
		}
	} else {
		out := types.ReadmeOutcome{Status: types.FetchNotFound}
		if v.readmes != nil {
			out = v.readmes.Readme(ctx, repo.Slug())
		}
		switch {
		case out.Status.Transient():
			v.logger.Debug("README unavailable, passing candidate through",
				zap.String("repo", repo.Slug()),
				zap.String("status", string(out.Status)),
				zap.Error(out.Err),
			)
			return Verdict{Accept: true, Strict: true, Reason: "README unavailable: " + string(out.Status)}
		case out.Status == types.FetchOK && readmeSupports(out.Text, significantWords(in.Title)):
			return Verdict{Accept: true, Strict: true, Reason: "README mentions the paper"}
		}
	}

	if coreInName {
		return Verdict{Accept: true, Strict: strict, Reason: "core keyword in name"}
	}
	if repo.Stars < obscureStars && (countContained(norm, all) > 0 || countContained(desc, lowered) > 0) {
		return Verdict{Accept: true, Strict: strict, Reason: "low-visibility keyword match"}
	}
	return Verdict{Strict: strict, Reason: "insufficient evidence"}
}

// trivialDescription reports whether desc is too short or generic to count.
func trivialDescription(desc string) bool {
	d := strings.TrimSpace(desc)
	if _, ok := trivialDescriptions[d]; ok {
		return true
	}
	return len(strings.Fields(d)) < 4
}

// readmeSupports reports whether a README mentions the paper: most of the
// significant title words, at least two of them, or one near an academic
// indicator such as "arxiv".
func readmeSupports(text string, sig []string) bool {
	if len(sig) == 0 {
		return false
	}
	lt := strings.ToLower(text)
	hits := countContained(lt, sig)
	if hits*2 > len(sig) || hits >= 2 {
		return true
	}
	if hits == 0 {
		return false
	}
	for _, ind := range academicIndicators {
		for from := 0; ; {
			i := strings.Index(lt[from:], ind)
			if i < 0 {
				break
			}
			i += from
			lo, hi := max(0, i-readmeWindow), min(len(lt), i+len(ind)+readmeWindow)
			if countContained(lt[lo:hi], sig) > 0 {
				return true
			}
			from = i + len(ind)
		}
	}
	return false
}
