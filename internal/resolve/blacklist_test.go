package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/codefinder/pkg/types"
)

func TestDefaultBlacklist(t *testing.T) {
	bl := DefaultBlacklist()

	f := bl.ForTitle("Paint by Example: Exemplar-based Image Editing with Diffusion Models")
	assert.True(t, f.ContainsURL("https://github.com/CompVis/stable-diffusion"))
	assert.True(t, f.ContainsURL("https://github.com/lllyasviel/ControlNet"))
	assert.False(t, f.ContainsURL("https://github.com/Fantasy-Studio/Paint-by-Example"))

	f = bl.ForTitle("FILM: Frame Interpolation for Large Motion")
	assert.True(t, f.ContainsURL("https://github.com/google-research/frame-interpolation"))

	assert.Empty(t, bl.ForTitle(biformerTitle))
}

func TestBlacklistCaseInsensitive(t *testing.T) {
	bl := NewBlacklist(types.BlacklistEntry{TitleSubstring: "Robust 3D Shape", ForbiddenRepos: []string{"RobustVideoMatting"}})

	f := bl.ForTitle("ROBUST 3d shape reconstruction")
	assert.True(t, f.Contains(types.CandidateRepository{Name: "robustvideomatting", FullName: "PeterL1n/RobustVideoMatting"}))
	assert.True(t, f.ContainsURL("https://github.com/PeterL1n/RobustVideoMatting"))
}

func TestBlacklistMatchesSlugEntries(t *testing.T) {
	bl := NewBlacklist(types.BlacklistEntry{TitleSubstring: "Frame Interpolation", ForbiddenRepos: []string{"google-research/frame-interpolation"}})
	f := bl.ForTitle("Frame Interpolation")

	assert.True(t, f.Contains(types.CandidateRepository{Name: "frame-interpolation", FullName: "google-research/frame-interpolation"}))
	assert.False(t, f.Contains(types.CandidateRepository{Name: "frame-interpolation", FullName: "someone/frame-interpolation"}))
}

func TestLoadBlacklist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.yaml")
	data := `entries:
  - title_substring: Segment Anything
    forbidden_repos: [awesome-segment-anything, someone/sam-demo]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	loaded, err := LoadBlacklist(path)
	require.NoError(t, err)
	require.Len(t, loaded.Entries(), 1)

	merged := DefaultBlacklist().Merge(loaded)
	assert.Len(t, merged.Entries(), len(defaultBlacklist)+1)

	f := merged.ForTitle("Segment Anything")
	assert.True(t, f.ContainsURL("https://github.com/someone/sam-demo"))
	assert.True(t, f.ContainsURL("https://github.com/x/awesome-segment-anything"))
}

func TestLoadBlacklistErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadBlacklist(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("entries: [\n"), 0o644))
	_, err = LoadBlacklist(bad)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("entries:\n  - forbidden_repos: [x]\n"), 0o644))
	_, err = LoadBlacklist(empty)
	assert.ErrorContains(t, err, "empty title_substring")
}
