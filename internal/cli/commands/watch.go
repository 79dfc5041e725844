package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stagecraft-labs/pipemenu/internal/address"
	"github.com/stagecraft-labs/pipemenu/internal/command"
	"github.com/stagecraft-labs/pipemenu/internal/controller"
	"github.com/stagecraft-labs/pipemenu/internal/dispatch"
	"github.com/stagecraft-labs/pipemenu/internal/watch"
)

// tickInterval paces the dispatch loop while watching. Document events are
// debounced upstream, so a coarse tick is plenty.
const tickInterval = 100 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the project and follow the active document's context",
		Long: `Watch the project directory for document changes and switch the menu
context as documents are saved. Every context switch is printed and,
unless --no-history is given, recorded in history.

Runs until interrupted.`,
		Example: `  pipemenu watch
  pipemenu watch shots/SH010
  pipemenu watch --no-history`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runWatch(cmd, dir, noHistory)
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Skip recording context switches")
	return cmd
}

func runWatch(cmd *cobra.Command, dir string, noHistory bool) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	watchDir := cc.Root
	if dir != "" {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(cc.Root, dir)
		}
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("cannot watch %s: %w", dir, err)
		}
		watchDir = dir
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
	watcher := watch.New(watchDir, cc.Config.DocumentExtensions, loop, cc.Logger)

	ctrl, err := controller.New(controller.Options{
		Commands:               func(ctx *address.Context) []*command.Descriptor { return cc.Descriptors(ctx) },
		Favourites:             cc.Config.Favourites,
		Resolver:               cc.Resolver(),
		Scheduler:              loop,
		Source:                 watcher,
		Initial:                cc.InitialContext(),
		DedupeFavourites:       cc.Config.DedupeFavourites,
		AutomaticContextSwitch: cc.Config.AutomaticContextSwitch,
		Recorder:               recorder,
		Logger:                 cc.Logger,
	})
	if err != nil {
		return err
	}
	defer ctrl.Destroy()

	if err := ctrl.Build(); err != nil {
		return fmt.Errorf("failed to build menu: %w", err)
	}
	cc.Renderer.Success("watching %s as %s", watchDir, ctrl.Context().Display())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(ctx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		last := ctrl.Context()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				loop.Tick()
				if current := ctrl.Context(); !current.Equal(last) {
					cc.Renderer.KV("context", current.Display())
					printNode(cc, ctrl.Tree(), current, 0)
					last = current
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	cc.Renderer.Dim("stopped")
	return nil
}
