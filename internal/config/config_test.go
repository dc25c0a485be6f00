package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitshipErrors "github.com/gitship/gitship/internal/errors"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultRemote, cfg.Remote)
	assert.Equal(t, DefaultHistoryCount, cfg.HistoryCount)
	assert.True(t, cfg.Verbose)
	assert.False(t, cfg.SkipTests)
	assert.Empty(t, cfg.Message)
	assert.Equal(t, "dev", cfg.VersionInfo.Version)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GITSHIP_REPO", "/some/repo")
	t.Setenv("GITSHIP_REMOTE", "upstream")
	t.Setenv("GITSHIP_SKIP_TESTS", "true")
	t.Setenv("GITSHIP_VERBOSE", "false")
	t.Setenv("GITSHIP_DEBUG", "1")

	cfg := New()
	cfg.LoadFromEnvironment()

	assert.Equal(t, "/some/repo", cfg.RepoPath)
	assert.Equal(t, "upstream", cfg.Remote)
	assert.True(t, cfg.SkipTests)
	assert.False(t, cfg.Verbose)
	assert.True(t, cfg.Debug)
}

func TestLoadFromEnvironmentIgnoresGarbageBool(t *testing.T) {
	t.Setenv("GITSHIP_SKIP_TESTS", "maybe")

	cfg := New()
	cfg.LoadFromEnvironment()

	assert.False(t, cfg.SkipTests)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".gitship.env")
	require.NoError(t, os.WriteFile(envFile, []byte("GITSHIP_REMOTE=backup\n"), 0644))

	// Make sure the variable is not already set: the env file must not
	// override a real environment variable, and must fill in a missing one.
	require.NoError(t, os.Unsetenv("GITSHIP_REMOTE"))
	t.Cleanup(func() { _ = os.Unsetenv("GITSHIP_REMOTE") })

	cfg := New()
	require.NoError(t, cfg.LoadEnvFile(envFile))
	cfg.LoadFromEnvironment()

	assert.Equal(t, "backup", cfg.Remote)
}

func TestLoadEnvFileMissingIsNotAnError(t *testing.T) {
	cfg := New()
	assert.NoError(t, cfg.LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}

func TestFinalizeDefaultsRepoPathToCwd(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.Finalize())

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, cfg.RepoPath)
	assert.True(t, filepath.IsAbs(cfg.RepoPath))
}

func TestFinalizeRejectsEmptyRemote(t *testing.T) {
	cfg := New()
	cfg.Remote = ""

	err := cfg.Finalize()
	require.Error(t, err)
	assert.True(t, gitshipErrors.Is(err, gitshipErrors.ErrInvalidConfiguration))
}

func TestFinalizeRejectsBadHistoryCount(t *testing.T) {
	cfg := New()
	cfg.HistoryCount = 0

	err := cfg.Finalize()
	require.Error(t, err)
	assert.True(t, gitshipErrors.Is(err, gitshipErrors.ErrInvalidConfiguration))
}

func TestFinalizeDerivesLogFile(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	cfg := New()
	cfg.RepoPath = t.TempDir()
	require.NoError(t, cfg.Finalize())

	assert.True(t, strings.HasPrefix(cfg.LogFile, filepath.Join(dataHome, "gitship", "logs")))
	assert.True(t, strings.HasSuffix(cfg.LogFile, ".log"))
}

func TestFinalizeLogFileIsStablePerRepo(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	repo := t.TempDir()

	first := New()
	first.RepoPath = repo
	require.NoError(t, first.Finalize())

	second := New()
	second.RepoPath = repo
	require.NoError(t, second.Finalize())

	assert.Equal(t, first.LogFile, second.LogFile)
}

func TestFinalizePicksUpDefaultRulesFile(t *testing.T) {
	repo := t.TempDir()
	rules := filepath.Join(repo, DefaultRulesFile)
	require.NoError(t, os.WriteFile(rules, []byte("rules: []\n"), 0644))

	cfg := New()
	cfg.RepoPath = repo
	require.NoError(t, cfg.Finalize())

	assert.Equal(t, rules, cfg.RulesFile)
}

func TestFinalizeLeavesRulesFileEmptyWhenAbsent(t *testing.T) {
	cfg := New()
	cfg.RepoPath = t.TempDir()
	require.NoError(t, cfg.Finalize())

	assert.Empty(t, cfg.RulesFile)
}

func TestFinalizeResolvesRelativeRulesFile(t *testing.T) {
	repo := t.TempDir()

	cfg := New()
	cfg.RepoPath = repo
	cfg.RulesFile = "conf/rules.yaml"
	require.NoError(t, cfg.Finalize())

	assert.Equal(t, filepath.Join(repo, "conf", "rules.yaml"), cfg.RulesFile)
}
