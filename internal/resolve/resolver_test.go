package resolve

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/codefinder/pkg/types"
)

const exactBiformer = `"BiFormer" language:python`

func testResolver(s Searcher, readmes ReadmeSource) *Resolver {
	cfg := types.DefaultPipelineConfig().Resolver
	return New(s, readmes, DefaultBlacklist(), cfg, WithClock(fixedClock))
}

func paper(title string) types.PaperRecord {
	return types.PaperRecord{Title: title, Authors: []string{"A. Author"}}
}

func TestResolveExactMatch(t *testing.T) {
	s := &fakeSearcher{results: map[string]types.SearchOutcome{
		exactBiformer: found(repo("vit-zoo", 300, "vision transformers"), biformerRepo()),
	}}

	got := testResolver(s, &fakeReadmes{}).Resolve(context.Background(), paper(biformerTitle))

	assert.Equal(t, biformerRepo().HTMLURL, got.RepoURL)
	assert.Equal(t, 800, got.Stars)
	assert.True(t, got.Verified)
	assert.Equal(t, types.StrategyExact, got.Strategy)
	assert.Equal(t, exactBiformer, got.Query)
	assert.GreaterOrEqual(t, got.Score, types.StrategyExact.Threshold())
	assert.Equal(t, []string{exactBiformer}, s.calls)
}

func TestResolveFallsThroughOnRateLimit(t *testing.T) {
	s := &fakeSearcher{results: map[string]types.SearchOutcome{
		exactBiformer:             {Status: types.FetchRateLimited},
		"BiFormer Bi-Level paper": found(biformerRepo()),
	}}

	got := testResolver(s, &fakeReadmes{}).Resolve(context.Background(), paper(biformerTitle))

	assert.Equal(t, biformerRepo().HTMLURL, got.RepoURL)
	assert.Equal(t, types.StrategyContextual, got.Strategy)
	assert.Equal(t, []string{exactBiformer, "BiFormer Bi-Level paper"}, s.calls)
}

func TestResolveMovesOnAfterRejection(t *testing.T) {
	// The popular unrelated repository clears the exact threshold through
	// its description but has no README, so the verifier rejects it.
	decoy := repo("sparse-vit", 3000, "Official implementation of BiFormer routing attention models")
	s := &fakeSearcher{results: map[string]types.SearchOutcome{
		exactBiformer: found(decoy),
		"BiFormer":    found(biformerRepo()),
	}}

	got := testResolver(s, &fakeReadmes{}).Resolve(context.Background(), paper(biformerTitle))

	assert.Equal(t, biformerRepo().HTMLURL, got.RepoURL)
	assert.Equal(t, types.StrategySingle, got.Strategy)
	assert.Len(t, s.calls, 7)
}

func TestResolveGenericTitleFindsNothing(t *testing.T) {
	generic := found(
		repo("awesome-deep-learning", 20000, "A curated list of awesome Deep Learning tutorials, projects and communities."),
		repo("deep-learning-survey", 300, "A survey of deep learning"),
	)
	s := &fakeSearcher{fallback: &generic}

	got := testResolver(s, &fakeReadmes{}).Resolve(context.Background(), paper("A Survey of Deep Learning"))

	assert.False(t, got.HasRepo())
	assert.Equal(t, "A Survey of Deep Learning", got.PaperTitle)
	assert.Len(t, s.calls, 6)
}

func TestResolveGenericTitleRejectsTopicalRepository(t *testing.T) {
	survey := repo("deep-learning-survey", 3000, "A survey of deep learning papers with implementation notes")
	survey.UpdatedAt = fixedNow.AddDate(0, 0, -10)
	all := found(survey)
	s := &fakeSearcher{fallback: &all}
	readmes := &fakeReadmes{outcomes: map[string]types.ReadmeOutcome{
		survey.Slug(): {Status: types.FetchOK, Text: "A survey of deep learning. Paper list with arxiv links."},
	}}

	got := testResolver(s, readmes).Resolve(context.Background(), paper("A Survey of Deep Learning"))

	assert.False(t, got.HasRepo())
	assert.Len(t, s.calls, 6)
}

func TestResolveNeverAssignsBlacklisted(t *testing.T) {
	sd := types.CandidateRepository{
		Name:        "stable-diffusion",
		FullName:    "CompVis/stable-diffusion",
		Description: "Official implementation of Paint by Example diffusion models",
		HTMLURL:     "https://github.com/CompVis/stable-diffusion",
		Stars:       60000,
	}
	all := found(sd)
	s := &fakeSearcher{fallback: &all}

	got := testResolver(s, &fakeReadmes{}).Resolve(context.Background(), paper("Paint by Example: Exemplar-based Image Editing with Diffusion Models"))
	assert.False(t, got.HasRepo())
	assert.NotEmpty(t, s.calls)
}

func TestResolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &fakeSearcher{}

	got := testResolver(s, &fakeReadmes{}).Resolve(ctx, paper(biformerTitle))
	assert.False(t, got.HasRepo())
	assert.Empty(t, s.calls)
}

func TestResolveBatch(t *testing.T) {
	plus := "BiFormer++: Faster Bi-Level Routing"
	s := &fakeSearcher{results: map[string]types.SearchOutcome{
		exactBiformer: found(biformerRepo()),
	}}
	papers := []types.PaperRecord{paper(plus), paper("A Survey of Deep Learning"), paper(biformerTitle)}

	res := testResolver(s, &fakeReadmes{}).ResolveBatch(context.Background(), papers)

	require.Len(t, res.Assignments, 3)
	for i, p := range papers {
		assert.Equal(t, p.Title, res.Assignments[i].PaperTitle, "output order follows input order")
	}
	assert.False(t, res.Assignments[0].HasRepo(), "weaker claim is cleared")
	assert.False(t, res.Assignments[1].HasRepo())
	assert.Equal(t, biformerRepo().HTMLURL, res.Assignments[2].RepoURL)

	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, biformerTitle, res.Conflicts[0].Winner)
	assert.Empty(t, res.Clearances)
	assert.Equal(t, 1, res.Resolved())
}

func TestResolveBatchIdempotent(t *testing.T) {
	s := &fakeSearcher{results: map[string]types.SearchOutcome{
		exactBiformer: found(biformerRepo()),
		"NeRF":        found(types.CandidateRepository{Name: "instant-ngp", FullName: "x/instant-ngp", HTMLURL: "https://github.com/x/instant-ngp", Stars: 15000, Description: "NeRF in seconds"}),
	}}
	papers := []types.PaperRecord{paper(biformerTitle), paper(nerfTitle), paper("A Survey of Deep Learning")}
	r := testResolver(s, &fakeReadmes{})

	first := r.ResolveBatch(context.Background(), papers)
	second := r.ResolveBatch(context.Background(), papers)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestResolveBatchAuditDisabled(t *testing.T) {
	ngp := types.CandidateRepository{
		Name:        "instant-ngp",
		FullName:    "x/instant-ngp",
		Description: "NeRF radiance fields in seconds, official implementation",
		HTMLURL:     "https://github.com/x/instant-ngp",
		Stars:       15000,
	}
	s := &fakeSearcher{results: map[string]types.SearchOutcome{"NeRF": found(ngp)}}
	papers := []types.PaperRecord{paper(nerfTitle)}

	cfg := types.DefaultPipelineConfig().Resolver
	cfg.Audit = false
	readmes := &fakeReadmes{outcomes: map[string]types.ReadmeOutcome{
		"x/instant-ngp": {Status: types.FetchOK, Text: "Instant neural graphics primitives: NeRF, radiance fields, neural scenes."},
	}}

	unaudited := New(s, readmes, DefaultBlacklist(), cfg, WithClock(fixedClock)).ResolveBatch(context.Background(), papers)
	audited := testResolver(s, readmes).ResolveBatch(context.Background(), papers)

	assert.Equal(t, ngp.HTMLURL, unaudited.Assignments[0].RepoURL)
	assert.False(t, audited.Assignments[0].HasRepo())
	require.Len(t, audited.Clearances, 1)
	assert.Equal(t, "model name missing from repository", audited.Clearances[0].Reason)
}
