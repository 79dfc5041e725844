package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// ProjectConfigYAML is the starter configuration written by SetupTestProject.
const ProjectConfigYAML = `project: demo
tracker_url: https://tracker.example.com/projects/demo
use_short_menu_name: false
automatic_context_switch: true
document_extensions: [".mg"]
locations:
  - type: shot
    pattern: shots/{name}
  - type: asset
    pattern: assets/{name}
favourites:
  - app_instance: pipeline
    name: Apps/Loader
apps:
  - instance: pipeline
    display_name: Pipeline
    commands:
      - name: Apps/Loader
        tooltip: Load published files
        action: {kind: log}
      - name: Apps/Publisher
        tooltip: Publish the current scene
        action: {kind: log}
  - instance: settings
    display_name: Settings
    commands:
      - name: Settings
        action: {kind: log}
`

// SetupTestProject creates a temporary project with a config file and
// entity directories, and returns its root.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	dirs := []string{
		filepath.Join(root, "shots", "SH010"),
		filepath.Join(root, "shots", "SH020"),
		filepath.Join(root, "assets", "chair"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	cfgPath := filepath.Join(root, "pipemenu.yaml")
	if err := os.WriteFile(cfgPath, []byte(ProjectConfigYAML), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return root
}

// DiscardLogger returns a logger that swallows all output.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
