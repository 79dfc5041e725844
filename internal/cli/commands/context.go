// Package commands implements the pipemenu subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stagecraft-labs/pipemenu/internal/address"
	"github.com/stagecraft-labs/pipemenu/internal/apps"
	"github.com/stagecraft-labs/pipemenu/internal/cli/config"
	"github.com/stagecraft-labs/pipemenu/internal/cli/output"
	"github.com/stagecraft-labs/pipemenu/internal/command"
	"github.com/stagecraft-labs/pipemenu/internal/state"
)

// Context value keys; unexported types keep them collision-free.
type (
	configKey   struct{}
	rendererKey struct{}
	loggerKey   struct{}
)

// WithValues stores the loaded config, renderer, and logger for subcommands.
func WithValues(ctx context.Context, cfg *config.Config, r *output.Renderer, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, configKey{}, cfg)
	ctx = context.WithValue(ctx, rendererKey{}, r)
	ctx = context.WithValue(ctx, loggerKey{}, logger)
	return ctx
}

// CommandContext bundles what most subcommands need.
type CommandContext struct {
	Config   *config.Config
	Renderer *output.Renderer
	Logger   *slog.Logger

	// Root is the project root directory the config was loaded from.
	Root string
}

// NewCommandContext extracts the shared values stored by the root command.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, _ := cmd.Context().Value(configKey{}).(*config.Config)
	if cfg == nil {
		return nil, fmt.Errorf("no project configuration loaded; run inside a project or pass --config")
	}
	r, _ := cmd.Context().Value(rendererKey{}).(*output.Renderer)
	if r == nil {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeAuto)
	}
	logger, _ := cmd.Context().Value(loggerKey{}).(*slog.Logger)
	if logger == nil {
		logger = slog.Default()
	}

	root := config.RootDir()
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = cwd
	}

	return &CommandContext{Config: cfg, Renderer: r, Logger: logger, Root: root}, nil
}

// InitialContext returns the project-only context the process starts in.
func (cc *CommandContext) InitialContext() *address.Context {
	return &address.Context{ProjectName: cc.Config.Project, ProjectRoot: cc.Root}
}

// Resolver builds the context resolver with project loading injected.
func (cc *CommandContext) Resolver() *address.Resolver {
	return &address.Resolver{
		LoadProject: config.LoadProjectAt,
		Logger:      cc.Logger,
	}
}

// Descriptors returns the command descriptors for the given context,
// built-in context sub-menu commands included.
func (cc *CommandContext) Descriptors(ctx *address.Context) []*command.Descriptor {
	return apps.Descriptors(cc.Config.Apps, cc.Config.TrackerURL, ctx, cc.Logger)
}

// OpenStore opens the project's history store.
func (cc *CommandContext) OpenStore() (*state.Store, error) {
	path := cc.Config.State
	if path == "" {
		path = config.DefaultStatePath(cc.Root)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	return state.Open(path, cc.Logger)
}
