package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stagecraft-labs/pipemenu/internal/address"
	"github.com/stagecraft-labs/pipemenu/internal/command"
	"github.com/stagecraft-labs/pipemenu/internal/controller"
	"github.com/stagecraft-labs/pipemenu/internal/dispatch"
	"github.com/stagecraft-labs/pipemenu/internal/tui"
)

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Browse and run the menu interactively",
		Long: `Open a terminal browser over the menu tree. Selecting a command queues
it on the dispatch loop and runs it, exactly as a host application's
menu would.`,
		Example: `  pipemenu ui
  pipemenu ui --no-history`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, noHistory)
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Skip recording invocations")
	return cmd
}

func runUI(cmd *cobra.Command, noHistory bool) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("ui requires an interactive terminal")
	}

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

	return tui.Run(tui.New(cc.Config.MenuTitle(), ctrl, loop, cc.Logger))
}
