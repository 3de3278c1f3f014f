// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/codefinder/pkg/types"
)

var now = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func TestRecognition(t *testing.T) {
	tests := []struct {
		name     string
		verified bool
		stars    int
		created  time.Time
		want     float64
	}{
		{"verified popular old repo", true, 800, time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), 12.19},
		{"nothing", false, 0, time.Time{}, 0},
		{"stars only", false, 10, time.Time{}, 2.4},
		{"recent repo", false, 100000, now.AddDate(0, 0, -30), 13.23},
		{"created in the future", true, 1000, now.Add(48 * time.Hour), 8.91},
		{"negative stars", false, -5, time.Time{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Recognition(tt.verified, tt.stars, tt.created, now), 1e-9)
		})
	}
}

func batch() []types.Assignment {
	return []types.Assignment{
		{PaperTitle: "BiFormer: Vision Transformer with Bi-Level Routing Attention", RepoURL: "https://github.com/rayleizhu/BiFormer", Stars: 800, Verified: true, Recognition: 12.19},
		{PaperTitle: "A Survey of Deep Learning"},
		{PaperTitle: "Segment Anything", RepoURL: "https://github.com/facebookresearch/segment-anything", Stars: 45000, Verified: true, Recognition: 15.5},
		{PaperTitle: "Tiny Transformer Tricks", RepoURL: "https://github.com/x/tiny", Stars: 40, Verified: true, Recognition: 5.8},
	}
}

func TestSummarize(t *testing.T) {
	st := Summarize(batch(), []string{"Transformer", "diffusion", ""})
	assert.Equal(t, 4, st.TotalPapers)
	assert.Equal(t, 3, st.OpenSource)
	assert.InDelta(t, 0.75, st.OpenSourceRate, 1e-9)
	assert.InDelta(t, 8.37, st.AverageRecognition, 1e-9)
	assert.Equal(t, []TopicCount{
		{Topic: "transformer", Count: 2, Share: 0.5},
		{Topic: "diffusion", Count: 0, Share: 0},
	}, st.Topics)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, Summarize(nil, []string{"x"}))
}

func TestTopRecommended(t *testing.T) {
	got := TopRecommended(batch(), DefaultMinStars, 0)
	require.Len(t, got, 2)
	assert.Equal(t, 45000, got[0].Stars)
	assert.Equal(t, 800, got[1].Stars)

	assert.Len(t, TopRecommended(batch(), DefaultMinStars, 1), 1)
	assert.Len(t, TopRecommended(batch(), 0, 0), 3)
}

type fakeMetadata struct {
	outcomes map[string]types.MetadataOutcome
	calls    []string
}

func (f *fakeMetadata) RepoMetadata(_ context.Context, slug string) types.MetadataOutcome {
	f.calls = append(f.calls, slug)
	if out, ok := f.outcomes[slug]; ok {
		return out
	}
	return types.MetadataOutcome{Status: types.FetchFailed, Err: errors.New("boom")}
}

func TestEnrich(t *testing.T) {
	created := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeMetadata{outcomes: map[string]types.MetadataOutcome{
		"rayleizhu/BiFormer": {Status: types.FetchOK, Metadata: types.RepoMetadata{Name: "BiFormer", Stars: 800, Forks: 60, CreatedAt: created}},
	}}
	in := []types.Assignment{
		{PaperTitle: "BiFormer", RepoURL: "https://github.com/rayleizhu/BiFormer", Stars: 750, Verified: true},
		{PaperTitle: "Survey"},
		{PaperTitle: "Tiny", RepoURL: "https://github.com/x/tiny", Stars: 10},
	}

	out := NewEnricher(src, func() time.Time { return now }, nil).Enrich(context.Background(), in)

	require.Len(t, out, 3)
	assert.Equal(t, 800, out[0].Stars)
	assert.Equal(t, 60, out[0].Forks)
	assert.Equal(t, created, out[0].CreatedAt)
	assert.InDelta(t, 12.19, out[0].Recognition, 1e-9)

	assert.Zero(t, out[1].Recognition)

	assert.Equal(t, 10, out[2].Stars, "metadata failure keeps search stars")
	assert.InDelta(t, 2.4, out[2].Recognition, 1e-9)

	assert.Equal(t, []string{"rayleizhu/BiFormer", "x/tiny"}, src.calls)
	assert.Equal(t, 750, in[0].Stars, "input is not modified")
}

func TestWriteAssignments(t *testing.T) {
	var buf bytes.Buffer
	WriteAssignments(&buf, batch())
	out := buf.String()
	assert.Contains(t, out, "REPOSITORY")
	assert.Contains(t, out, "rayleizhu/BiFormer")
	assert.Contains(t, out, "12.19")
	assert.Contains(t, out, "A Survey of Deep Learning")
	assert.Equal(t, 1, strings.Count(out, "Segment Anything"))
}

func TestWriteStats(t *testing.T) {
	var buf bytes.Buffer
	WriteStats(&buf, Summarize(batch(), []string{"transformer"}))
	out := buf.String()
	assert.Contains(t, out, "papers: 4, open source: 3 (75%), average recognition: 8.37")
	assert.Contains(t, out, "transformer")
	assert.Contains(t, out, "50%")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, batch()[:2]))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "https://github.com/rayleizhu/BiFormer", got[0]["repo_url"])
	assert.Nil(t, got[1]["repo_url"])
	assert.Contains(t, got[1], "repo_url")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
