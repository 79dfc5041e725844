package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stagecraft-labs/pipemenu/internal/address"
	"github.com/stagecraft-labs/pipemenu/internal/command"
	"github.com/stagecraft-labs/pipemenu/internal/controller"
	"github.com/stagecraft-labs/pipemenu/internal/dispatch"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	var (
		forPath   string
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "run <app> <command>",
		Short: "Invoke a single menu command",
		Long: `Build the menu, invoke one command by app instance and command name,
and drain the dispatch queue. The invocation is recorded in history
unless --no-history is given.`,
		Example: `  pipemenu run pipeline "Apps/Loader"
  pipemenu run settings "Project Settings..."
  pipemenu run pipeline Publish --for shots/SH010/scene.mg`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args[0], args[1], forPath, noHistory)
		},
	}

	cmd.Flags().StringVar(&forPath, "for", "", "Resolve this document path before invoking")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Skip recording the invocation")
	return cmd
}

func runRun(cmd *cobra.Command, app, name, forPath string, noHistory bool) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	var recorder controller.Recorder
	if !noHistory {
		store, err := cc.OpenStore()
		if err != nil {
			return err
		}
		defer store.Close()
		recorder = store
	}

	loop := dispatch.NewLoop()
	ctrl, err := controller.New(controller.Options{
		Commands:         func(ctx *address.Context) []*command.Descriptor { return cc.Descriptors(ctx) },
		Favourites:       cc.Config.Favourites,
		Resolver:         cc.Resolver(),
		Scheduler:        loop,
		Initial:          cc.InitialContext(),
		DedupeFavourites: cc.Config.DedupeFavourites,
		Recorder:         recorder,
		Logger:           cc.Logger,
	})
	if err != nil {
		return err
	}
	defer ctrl.Destroy()

	if err := ctrl.Build(); err != nil {
		return fmt.Errorf("failed to build menu: %w", err)
	}

	if forPath != "" {
		ctrl.HandleDocumentChanged(forPath)
		loop.RunUntilIdle()
	}

	normalized, err := command.NormalizeName(name)
	if err != nil {
		return fmt.Errorf("invalid command name %q: %w", name, err)
	}
	id := command.Identity{Name: normalized, AppInstance: app}
	if err := ctrl.Invoke(id); err != nil {
		return suggestCommand(cc, ctrl, app, err)
	}

	ran := loop.RunUntilIdle()
	cc.Logger.Debug("dispatch queue drained", "tasks", ran)
	cc.Renderer.Success("ran %s (%s)", name, app)
	return nil
}

// suggestCommand decorates an unknown-command error with the app's
// registered command names so typos are cheap to fix.
func suggestCommand(cc *CommandContext, ctrl *controller.Controller, app string, invokeErr error) error {
	var names []string
	for _, d := range cc.Descriptors(ctrl.Context()) {
		if d.AppInstance() == app {
			names = append(names, d.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("%w (no app instance %q)", invokeErr, app)
	}
	return fmt.Errorf("%w (commands of %s: %s)", invokeErr, app, strings.Join(names, ", "))
}
