// Package apps turns configuration-declared apps into command descriptors.
// This is the demo command registry: a real host would register descriptors
// programmatically, but the menu pipeline only ever sees the descriptor
// collection either way.
package apps

import (
	"log/slog"
	"os/exec"
	"strings"

	"github.com/stagecraft-labs/pipemenu/internal/address"
	"github.com/stagecraft-labs/pipemenu/internal/command"
	"github.com/stagecraft-labs/pipemenu/internal/launch"
)

// ActionKind selects what a configured command does when dispatched.
type ActionKind string

const (
	// ActionLog writes a log line. The default when no action is declared.
	ActionLog ActionKind = "log"
	// ActionOpenPath opens a path in the file browser; with no target, the
	// active context's locations are opened.
	ActionOpenPath ActionKind = "open_path"
	// ActionOpenURL opens a URL in the default browser.
	ActionOpenURL ActionKind = "open_url"
	// ActionExec starts an external process and does not wait for it.
	ActionExec ActionKind = "exec"
)

// Valid reports whether the kind is one of the known actions.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionLog, ActionOpenPath, ActionOpenURL, ActionExec, "":
		return true
	default:
		return false
	}
}

// ActionConfig declares a command's effect.
type ActionConfig struct {
	Kind   ActionKind `koanf:"kind"`
	Target string     `koanf:"target"`
}

// CommandConfig declares one command of an app.
type CommandConfig struct {
	Name        string       `koanf:"name"`
	Tooltip     string       `koanf:"tooltip"`
	Type        string       `koanf:"type"`
	EnabledWhen string       `koanf:"enabled_when"`
	Checkable   bool         `koanf:"checkable"`
	Action      ActionConfig `koanf:"action"`
}

// AppConfig declares one app instance and its commands.
type AppConfig struct {
	Instance    string          `koanf:"instance"`
	DisplayName string          `koanf:"display_name"`
	Commands    []CommandConfig `koanf:"commands"`
}

// Descriptors converts app configurations into command descriptors bound to
// the given context. Built-in context commands (jump to the filesystem and
// to the project tracker) are appended when a context is available.
func Descriptors(appCfgs []AppConfig, trackerURL string, ctx *address.Context, logger *slog.Logger) []*command.Descriptor {
	if logger == nil {
		logger = slog.Default()
	}

	var out []*command.Descriptor
	for _, app := range appCfgs {
		handle := &command.AppHandle{
			InstanceName: app.Instance,
			DisplayName:  app.DisplayName,
		}
		for _, cmd := range app.Commands {
			out = append(out, &command.Descriptor{
				Name:     cmd.Name,
				Callback: callbackFor(cmd, ctx, logger),
				Properties: command.Properties{
					App:        handle,
					Type:       command.Kind(cmd.Type),
					Tooltip:    cmd.Tooltip,
					EnableWhen: cmd.EnabledWhen,
					Checkable:  cmd.Checkable,
				},
			})
		}
	}

	out = append(out, BuiltinContextCommands(trackerURL, ctx, logger)...)
	return out
}

// BuiltinContextCommands returns the commands every menu carries in its
// context sub-tree: jumping to the context's filesystem locations and to
// the project tracker page.
func BuiltinContextCommands(trackerURL string, ctx *address.Context, logger *slog.Logger) []*command.Descriptor {
	if ctx == nil {
		return nil
	}

	jumpFS := &command.Descriptor{
		Name: "Jump to File System",
		Callback: func() {
			for _, loc := range ctx.Locations() {
				launch.OpenPath(loc, logger)
			}
		},
		Properties: command.Properties{
			Type:    command.KindContextMenu,
			Tooltip: "Open this context's folders in the file browser",
		},
	}

	jumpTracker := &command.Descriptor{
		Name: "Jump to Project Tracker",
		Callback: func() {
			launch.OpenURL(trackerURL, logger)
		},
		Properties: command.Properties{
			Type:       command.KindContextMenu,
			Tooltip:    "Open the project page in the tracker",
			EnableWhen: `ctx.project != ""`,
		},
	}

	return []*command.Descriptor{jumpFS, jumpTracker}
}

func callbackFor(cmd CommandConfig, ctx *address.Context, logger *slog.Logger) func() {
	action := cmd.Action
	switch action.Kind {
	case ActionOpenPath:
		return func() {
			if action.Target != "" {
				launch.OpenPath(action.Target, logger)
				return
			}
			for _, loc := range ctx.Locations() {
				launch.OpenPath(loc, logger)
			}
		}
	case ActionOpenURL:
		return func() {
			launch.OpenURL(action.Target, logger)
		}
	case ActionExec:
		return func() {
			runDetached(action.Target, logger)
		}
	default:
		return func() {
			logger.Info("command executed",
				slog.String("command", cmd.Name),
				slog.String("context", ctx.Display()))
		}
	}
}

// runDetached starts the configured command line and leaves it running.
// Failures are logged, never escalated.
func runDetached(commandLine string, logger *slog.Logger) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		logger.Warn("exec action has no command line")
		return
	}

	cmd := exec.Command(fields[0], fields[1:]...)
	if err := cmd.Start(); err != nil {
		logger.Error("exec action failed", slog.String("command", commandLine), "error", err)
		return
	}
	go func() { _ = cmd.Wait() }()
}
