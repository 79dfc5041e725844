package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagecraft-labs/pipemenu/internal/apps"
	"github.com/stagecraft-labs/pipemenu/internal/testutil"
)

func TestLoad_FromProjectFile(t *testing.T) {
	root := testutil.SetupTestProject(t)

	cfg, err := Load(filepath.Join(root, "pipemenu.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Project)
	assert.Equal(t, "https://tracker.example.com/projects/demo", cfg.TrackerURL)
	assert.True(t, cfg.AutomaticContextSwitch)
	assert.Equal(t, []string{".mg"}, cfg.DocumentExtensions)

	require.Len(t, cfg.Locations, 2)
	assert.Equal(t, "shot", cfg.Locations[0].Type)
	assert.Equal(t, "shots/{name}", cfg.Locations[0].Pattern)

	require.Len(t, cfg.Favourites, 1)
	assert.Equal(t, "pipeline", cfg.Favourites[0].AppInstance)

	require.Len(t, cfg.Apps, 2)
	assert.Equal(t, "pipeline", cfg.Apps[0].Instance)
	require.Len(t, cfg.Apps[0].Commands, 2)
	assert.Equal(t, apps.ActionLog, cfg.Apps[0].Commands[0].Action.Kind)

	assert.Equal(t, filepath.Join(root, "pipemenu.yaml"), GetConfigFileUsed())
	assert.Equal(t, root, RootDir())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	root := testutil.SetupTestProject(t)
	t.Setenv("PIPEMENU_USE_SHORT_MENU_NAME", "true")

	cfg, err := Load(filepath.Join(root, "pipemenu.yaml"), nil)
	require.NoError(t, err)
	assert.True(t, cfg.UseShortMenuName)
	assert.Equal(t, ShortMenuName, cfg.MenuTitle())
}

func TestLoad_ActionKindIsNormalized(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "pipemenu.yaml")
	content := `project: demo
apps:
  - instance: tools
    display_name: Tools
    commands:
      - name: Open Renders
        action: {kind: OPEN_PATH, target: /tmp/renders}
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	cfg, err := Load(cfgPath, nil)
	require.NoError(t, err)
	require.Len(t, cfg.Apps, 1)
	assert.Equal(t, apps.ActionOpenPath, cfg.Apps[0].Commands[0].Action.Kind)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing project",
			content: "use_short_menu_name: true\n",
		},
		{
			name: "unknown action kind",
			content: `project: demo
apps:
  - instance: tools
    display_name: Tools
    commands:
      - name: Bad
        action: {kind: teleport}
`,
		},
		{
			name: "config version too new",
			content: `project: demo
config_version: 99
`,
		},
		{
			name: "location without pattern",
			content: `project: demo
locations:
  - type: shot
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cfgPath := filepath.Join(dir, "pipemenu.yaml")
			require.NoError(t, os.WriteFile(cfgPath, []byte(tt.content), 0o644))

			_, err := Load(cfgPath, nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadProjectAt(t *testing.T) {
	root := testutil.SetupTestProject(t)

	project, err := LoadProjectAt(root)
	require.NoError(t, err)
	assert.Equal(t, "demo", project.Name)
	require.Len(t, project.Locations, 2)

	_, err = LoadProjectAt(t.TempDir())
	assert.Error(t, err, "directory without a marker is not a project")
}

func TestConfig_MenuTitle(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, LongMenuName, cfg.MenuTitle())
	cfg.UseShortMenuName = true
	assert.Equal(t, ShortMenuName, cfg.MenuTitle())
}

func TestDefaultStatePath(t *testing.T) {
	got := DefaultStatePath("/projects/demo")
	assert.Equal(t, filepath.Join("/projects/demo", ".pipemenu", "history.db"), got)
}
