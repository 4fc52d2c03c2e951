package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpzouying/unsave-mcp/reddit"
	"github.com/xpzouying/unsave-mcp/unsave"
)

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettings_EmptyPathUsesDefaults(t *testing.T) {
	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, reddit.DefaultSavedURL, s.FeedURL)
	assert.Equal(t, unsave.DefaultPolicy(), s.Policy)
}

func TestLoadSettings_Overrides(t *testing.T) {
	path := writePolicy(t, `
feed_url: https://www.reddit.com/user/someone/saved/
action_delay:
  min: 800ms
  max: 2s
settle_delay: 3s
stagnation_threshold: 5
labels:
  saved: Unsave
`)

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "https://www.reddit.com/user/someone/saved/", s.FeedURL)
	assert.Equal(t, 800*time.Millisecond, s.Policy.ActionDelayMin)
	assert.Equal(t, 2*time.Second, s.Policy.ActionDelayMax)
	assert.Equal(t, 3*time.Second, s.Policy.SettleDelay)
	assert.Equal(t, 5, s.Policy.StagnationThreshold)
	assert.Equal(t, "Unsave", s.Policy.SavedLabel)

	// 未填写的字段保持默认
	assert.Equal(t, unsave.DefaultCycleDelayMin, s.Policy.CycleDelayMin)
	assert.Equal(t, unsave.DefaultCycleDelayMax, s.Policy.CycleDelayMax)
	assert.Equal(t, unsave.DefaultUnsavedLabel, s.Policy.UnsavedLabel)
}

func TestLoadSettings_RejectsInvalidWindow(t *testing.T) {
	path := writePolicy(t, `
cycle_delay:
  min: 5s
  max: 1s
`)

	_, err := LoadSettings(path)
	assert.Error(t, err)
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestResolvePaths(t *testing.T) {
	t.Setenv(EnvBrowserBin, "/usr/bin/chromium")
	t.Setenv(EnvPolicyPath, "/etc/unsave.yaml")

	assert.Equal(t, "/usr/bin/chromium", ResolveBinPath(""))
	assert.Equal(t, "/opt/chrome", ResolveBinPath("/opt/chrome"))
	assert.Equal(t, "/etc/unsave.yaml", ResolvePolicyPath(""))
	assert.Equal(t, "./p.yaml", ResolvePolicyPath("./p.yaml"))
}

func TestLoadSettings_RejectsForeignFeedURL(t *testing.T) {
	path := writePolicy(t, `
feed_url: http://evil.example.com/saved/
`)

	_, err := LoadSettings(path)
	assert.ErrorIs(t, err, reddit.ErrInvalidFeedURL)
}
