package apps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagecraft-labs/pipemenu/internal/address"
	"github.com/stagecraft-labs/pipemenu/internal/command"
	"github.com/stagecraft-labs/pipemenu/internal/testutil"
)

func TestDescriptors(t *testing.T) {
	cfg := []AppConfig{
		{
			Instance:    "pipeline",
			DisplayName: "Pipeline",
			Commands: []CommandConfig{
				{Name: "Apps/Loader", Tooltip: "Load published files"},
				{Name: "Apps/Publisher", EnabledWhen: `ctx.entity_type == "shot"`},
			},
		},
	}
	ctx := &address.Context{ProjectName: "demo", ProjectRoot: "/projects/demo"}

	descs := Descriptors(cfg, "https://tracker.example.com", ctx, testutil.DiscardLogger())

	// Two configured commands plus the two built-in context commands.
	require.Len(t, descs, 4)

	loader := descs[0]
	assert.Equal(t, "Apps/Loader", loader.Name)
	assert.Equal(t, "pipeline", loader.AppInstance())
	assert.Equal(t, "Pipeline", loader.AppDisplayName())
	assert.Equal(t, "Load published files", loader.Properties.Tooltip)
	assert.Equal(t, command.KindDefault, loader.Type())
	require.NotNil(t, loader.Callback)

	publisher := descs[1]
	assert.Equal(t, `ctx.entity_type == "shot"`, publisher.Properties.EnableWhen)

	assert.Equal(t, "Jump to File System", descs[2].Name)
	assert.Equal(t, command.KindContextMenu, descs[2].Type())
	assert.Equal(t, "Jump to Project Tracker", descs[3].Name)
	assert.Equal(t, command.KindContextMenu, descs[3].Type())
}

func TestDescriptors_NoContextSkipsBuiltins(t *testing.T) {
	descs := Descriptors(nil, "https://tracker.example.com", nil, testutil.DiscardLogger())
	assert.Empty(t, descs)
}

func TestCallbackFor_LogActionIsSafe(t *testing.T) {
	cmd := CommandConfig{Name: "Settings"}
	ctx := &address.Context{ProjectName: "demo"}

	cb := callbackFor(cmd, ctx, testutil.DiscardLogger())
	require.NotNil(t, cb)
	assert.NotPanics(t, cb)
}

func TestCallbackFor_ExecWithEmptyCommandLine(t *testing.T) {
	cmd := CommandConfig{Name: "Broken", Action: ActionConfig{Kind: ActionExec}}

	cb := callbackFor(cmd, &address.Context{}, testutil.DiscardLogger())
	assert.NotPanics(t, cb, "empty exec target logs and returns")
}

func TestActionKind_Valid(t *testing.T) {
	assert.True(t, ActionKind("").Valid())
	assert.True(t, ActionLog.Valid())
	assert.True(t, ActionOpenPath.Valid())
	assert.True(t, ActionOpenURL.Valid())
	assert.True(t, ActionExec.Valid())
	assert.False(t, ActionKind("teleport").Valid())
}
