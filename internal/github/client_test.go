// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pdiddy/codefinder/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testClient(ts *httptest.Server) *Client {
	return New(types.GitHubConfig{
		HTTPConfig:       types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"},
		APIBase:          ts.URL,
		Token:            "secret",
		PerPage:          5,
		RateLimitBackoff: time.Millisecond,
	}, WithHTTPClient(ts.Client()))
}

const searchBody = `{
  "total_count": 3,
  "items": [
    {"name": "biformer", "full_name": "rayleizhu/BiFormer", "description": "Official PyTorch implementation of BiFormer",
     "html_url": "https://github.com/rayleizhu/BiFormer", "stargazers_count": 800, "updated_at": "2025-06-01T10:00:00Z"},
    {"name": "broken-date", "full_name": "x/broken-date", "description": null,
     "html_url": "https://github.com/x/broken-date", "stargazers_count": 3, "updated_at": "yesterday"},
    {"name": "", "html_url": ""}
  ]
}`

// --- SearchRepositories ---

func TestSearchRepositories(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/repositories", r.URL.Path)
		assert.Equal(t, `"BiFormer" language:python`, r.URL.Query().Get("q"))
		assert.Equal(t, "stars", r.URL.Query().Get("sort"))
		assert.Equal(t, "desc", r.URL.Query().Get("order"))
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "test/0.1", r.Header.Get("User-Agent"))
		fmt.Fprint(w, searchBody)
	}))
	defer ts.Close()

	out := testClient(ts).SearchRepositories(context.Background(), `"BiFormer" language:python`, 0)
	require.Equal(t, types.FetchOK, out.Status)
	require.NoError(t, out.Err)
	require.Len(t, out.Repos, 2)

	first := out.Repos[0]
	assert.Equal(t, "biformer", first.Name)
	assert.Equal(t, "rayleizhu/BiFormer", first.FullName)
	assert.Equal(t, 800, first.Stars)
	assert.Equal(t, 2025, first.UpdatedAt.Year())

	// A malformed timestamp drops only that field.
	assert.Equal(t, "broken-date", out.Repos[1].Name)
	assert.True(t, out.Repos[1].UpdatedAt.IsZero())
	assert.Equal(t, "", out.Repos[1].Description)
}

func TestSearchRepositoriesEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"total_count": 0, "items": []}`)
	}))
	defer ts.Close()

	out := testClient(ts).SearchRepositories(context.Background(), "nothing", 10)
	assert.Equal(t, types.FetchEmpty, out.Status)
	assert.Empty(t, out.Repos)
}

func TestSearchRepositoriesRateLimitedTwice(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	out := testClient(ts).SearchRepositories(context.Background(), "gan", 10)
	assert.Equal(t, types.FetchRateLimited, out.Status)
	assert.Error(t, out.Err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "one retry after the fixed backoff")
}

func TestSearchRepositoriesRateLimitRecovers(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, searchBody)
	}))
	defer ts.Close()

	out := testClient(ts).SearchRepositories(context.Background(), "biformer", 10)
	assert.Equal(t, types.FetchOK, out.Status)
	assert.Len(t, out.Repos, 2)
}

func TestSearchRepositoriesServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	out := testClient(ts).SearchRepositories(context.Background(), "gan", 10)
	assert.Equal(t, types.FetchFailed, out.Status)
	assert.ErrorContains(t, out.Err, "HTTP 502")
}

func TestSearchRepositoriesMalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"items": [`)
	}))
	defer ts.Close()

	out := testClient(ts).SearchRepositories(context.Background(), "gan", 10)
	assert.Equal(t, types.FetchFailed, out.Status)
}

func TestSearchRepositoriesEmptyQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected for an empty query")
	}))
	defer ts.Close()

	out := testClient(ts).SearchRepositories(context.Background(), "", 10)
	assert.Equal(t, types.FetchEmpty, out.Status)
}

// --- Readme ---

func TestReadmeBase64(t *testing.T) {
	text := "# BiFormer\n\nOfficial code for our CVPR 2023 paper on bi-level routing attention.\n"
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	// GitHub wraps the payload.
	wrapped := encoded[:20] + "\n" + encoded[20:]

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/rayleizhu/BiFormer/readme", r.URL.Path)
		fmt.Fprintf(w, `{"name": "README.md", "encoding": "base64", "content": %q}`, wrapped)
	}))
	defer ts.Close()

	out := testClient(ts).Readme(context.Background(), "rayleizhu/BiFormer")
	require.Equal(t, types.FetchOK, out.Status)
	assert.Contains(t, out.Text, "bi-level routing attention")
}

func TestReadmeStripsHTML(t *testing.T) {
	text := `<p align="center"><img src="logo.png"></p><style>.x{}</style>
<h1>GAN Zoo</h1> A list of <b>generative</b> models. See arxiv paper.`
	encoded := base64.StdEncoding.EncodeToString([]byte(text))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"name": "README.md", "encoding": "base64", "content": %q}`, encoded)
	}))
	defer ts.Close()

	out := testClient(ts).Readme(context.Background(), "a/gan-zoo")
	require.Equal(t, types.FetchOK, out.Status)
	assert.Contains(t, out.Text, "GAN Zoo")
	assert.Contains(t, out.Text, "generative")
	assert.NotContains(t, out.Text, "<b>")
	assert.NotContains(t, out.Text, ".x{}")
}

func TestReadmeNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	out := testClient(ts).Readme(context.Background(), "a/b")
	assert.Equal(t, types.FetchNotFound, out.Status)
	assert.NoError(t, out.Err)
}

func TestReadmeBadEncoding(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"name": "README.md", "encoding": "base64", "content": "!!!not base64"}`)
	}))
	defer ts.Close()

	out := testClient(ts).Readme(context.Background(), "a/b")
	assert.Equal(t, types.FetchEmpty, out.Status)
}

func TestReadmeInvalidSlug(t *testing.T) {
	c := New(types.GitHubConfig{})
	out := c.Readme(context.Background(), "not-a-slug")
	assert.Equal(t, types.FetchNotFound, out.Status)
}

// --- RepoMetadata ---

func TestRepoMetadata(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/pytorch/pytorch", r.URL.Path)
		fmt.Fprint(w, `{"name": "pytorch", "description": "Tensors and Dynamic neural networks",
			"stargazers_count": 90000, "forks_count": 24000, "created_at": "2016-08-13T05:26:41Z"}`)
	}))
	defer ts.Close()

	out := testClient(ts).RepoMetadata(context.Background(), "pytorch/pytorch")
	require.Equal(t, types.FetchOK, out.Status)
	assert.Equal(t, 90000, out.Metadata.Stars)
	assert.Equal(t, 24000, out.Metadata.Forks)
	assert.Equal(t, 2016, out.Metadata.CreatedAt.Year())
}

func TestRepoMetadataFailureIsUnknown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	out := testClient(ts).RepoMetadata(context.Background(), "a/b")
	assert.Equal(t, types.FetchFailed, out.Status)
	assert.Equal(t, types.RepoMetadata{}, out.Metadata)
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain markdown", "# Title\nbody", "# Title\nbody"},
		{"inline tags", "see <a href=\"x\">paper</a>", "see paper"},
		{"script dropped", "<script>alert(1)</script>ok", "ok"},
		{"entities", "a &amp; b", "a & b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, htmlToText(tt.in))
		})
	}
}
