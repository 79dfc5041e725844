package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagecraft-labs/pipemenu/internal/cli/config"
)

func runInitIn(t *testing.T, dir string, args []string) error {
	t.Helper()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	require.NoError(t, os.Chdir(dir))

	cmd := NewInitCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestInitCreatesConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInitIn(t, dir, []string{"my-show"}))

	path := filepath.Join(dir, "pipemenu.yaml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "project: my-show")
	assert.Contains(t, string(data), "shots/{name}")
	assert.Contains(t, string(data), "Apps/Loader")
}

func TestInitDefaultsProjectToDirName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "hero-film")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, runInitIn(t, dir, nil))

	data, err := os.ReadFile(filepath.Join(dir, "pipemenu.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "project: hero-film")
}

func TestInitRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "pipemenu.yaml")
	require.NoError(t, os.WriteFile(existing, []byte("project: keep-me\n"), 0o600))

	err := runInitIn(t, dir, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "project: keep-me\n", string(data))
}

func TestInitForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "pipemenu.yaml")
	require.NoError(t, os.WriteFile(existing, []byte("project: old\n"), 0o600))

	require.NoError(t, runInitIn(t, dir, []string{"new-show", "--force"}))

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Contains(t, string(data), "project: new-show")
}

func TestInitOutputLoadsCleanly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInitIn(t, dir, []string{"round-trip"}))

	cfg, err := config.Load(filepath.Join(dir, "pipemenu.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, "round-trip", cfg.Project)
	assert.Len(t, cfg.Locations, 2)
	require.NotEmpty(t, cfg.Apps)
	assert.Equal(t, "pipeline", cfg.Apps[0].Instance)
}
