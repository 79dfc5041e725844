// Package controller orchestrates menu builds, context switches, and
// teardown. It owns the single active context and the single menu tree;
// every other component is a pure function over its inputs.
//
// The controller runs on the host's cooperative event loop: its methods are
// not safe for concurrent use, and off-loop event producers (file watchers)
// must post into the loop before calling in.
package controller

import (
	"fmt"
	"log/slog"

	"github.com/stagecraft-labs/pipemenu/internal/address"
	"github.com/stagecraft-labs/pipemenu/internal/command"
	"github.com/stagecraft-labs/pipemenu/internal/dispatch"
	"github.com/stagecraft-labs/pipemenu/internal/menu"
)

// State is the controller's position in the switch state machine.
type State int

const (
	// StateStable means the menu reflects the active context.
	StateStable State = iota
	// StateSwitching is the transient state while the external switch call
	// is in flight.
	StateSwitching
	// StateDisabled means the last switch failed: the menu shows a single
	// explanatory entry and the context is unchanged. Only a subsequent
	// successful switch recovers.
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateStable:
		return "stable"
	case StateSwitching:
		return "switching"
	case StateDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Switcher performs the external context switch.
type Switcher interface {
	Switch(ctx *address.Context) error
}

// SwitcherFunc adapts a function to the Switcher interface.
type SwitcherFunc func(ctx *address.Context) error

// Switch implements Switcher.
func (f SwitcherFunc) Switch(ctx *address.Context) error { return f(ctx) }

// DocumentSource notifies the controller when the active document changes.
// Subscribe must deliver the document's file path, or "" when there is none.
type DocumentSource interface {
	ActiveDocumentPath() string
	Subscribe(fn func(path string)) *Subscription
}

// Recorder persists invocation and switch history. Optional.
type Recorder interface {
	RecordInvocation(app, cmd string, runErr error) error
	RecordSwitch(from, to string, switchErr error) error
}

// Options configures a Controller. Commands is called once per build cycle
// with the context the menu is being built for; the controller never holds
// on to descriptors across builds.
type Options struct {
	Commands   func(ctx *address.Context) []*command.Descriptor
	Favourites []menu.Favourite
	Resolver   *address.Resolver
	Switcher   Switcher
	Scheduler  dispatch.Scheduler
	Source     DocumentSource

	// Initial is the context the controller starts in.
	Initial *address.Context

	// DedupeFavourites is passed through to the menu builder.
	DedupeFavourites bool

	// AutomaticContextSwitch subscribes to the document source on Build.
	AutomaticContextSwitch bool

	Recorder Recorder
	Logger   *slog.Logger
}

// Controller drives the menu lifecycle.
type Controller struct {
	opts   Options
	logger *slog.Logger

	current        *address.Context
	tree           *menu.Node
	state          State
	disabledReason string
	invokers       map[command.Identity]func(args ...any)
	docSub         *Subscription
	destroyed      bool
}

// New creates a controller. Scheduler and Commands are required; everything
// else is optional.
func New(opts Options) (*Controller, error) {
	if opts.Commands == nil {
		return nil, fmt.Errorf("controller requires a command supplier")
	}
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("controller requires a scheduler")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		opts:    opts,
		logger:  logger,
		current: opts.Initial,
		state:   StateStable,
	}, nil
}

// Context returns the active context.
func (c *Controller) Context() *address.Context {
	return c.current
}

// Tree returns the current menu tree, or nil before the first Build or
// after Destroy.
func (c *Controller) Tree() *menu.Node {
	return c.tree
}

// State returns the controller's state machine position.
func (c *Controller) State() State {
	return c.state
}

// Destroyed reports whether Destroy has run.
func (c *Controller) Destroyed() bool {
	return c.destroyed
}

// Build constructs the menu for the active context and, when automatic
// context switching is on, subscribes to the document source. Descriptors
// are fetched fresh from the supplier; the previous tree is discarded.
func (c *Controller) Build() error {
	if c.destroyed {
		return fmt.Errorf("controller is destroyed")
	}

	// While disabled, rebuilds keep showing the explanatory entry; only a
	// successful context switch restores the real menu.
	if c.state == StateDisabled {
		builder := &menu.Builder{Logger: c.logger}
		c.tree = builder.BuildDisabled(c.disabledReason)
		c.invokers = nil
		return nil
	}

	descriptors := c.opts.Commands(c.current)

	builder := &menu.Builder{
		ContextLabel:     c.current.Display(),
		DedupeFavourites: c.opts.DedupeFavourites,
		Logger:           c.logger,
	}
	tree, err := builder.Build(descriptors, c.opts.Favourites)
	if err != nil {
		return fmt.Errorf("failed to build menu: %w", err)
	}

	// Key invokers by the normalized identity: the tree's leaves carry the
	// registry's normalized names, and lookups come from those leaves.
	invokers := make(map[command.Identity]func(args ...any), len(descriptors))
	for _, d := range descriptors {
		d := d
		name, nameErr := command.NormalizeName(d.Name)
		if nameErr != nil {
			// The builder rejected this descriptor already.
			continue
		}
		id := command.Identity{Name: name, AppInstance: d.AppInstance()}
		run := func() {
			if c.opts.Recorder != nil {
				if recErr := c.opts.Recorder.RecordInvocation(id.AppInstance, id.Name, nil); recErr != nil {
					c.logger.Warn("failed to record invocation", "error", recErr)
				}
			}
			if d.Callback != nil {
				d.Callback()
			}
		}
		invokers[id] = dispatch.Wrap(id.String(), run, c.opts.Scheduler, c.logger)
	}

	c.tree = tree
	c.invokers = invokers
	c.state = StateStable

	if c.opts.AutomaticContextSwitch && c.opts.Source != nil && c.docSub == nil {
		c.docSub = c.opts.Source.Subscribe(c.HandleDocumentChanged)
		c.logger.Debug("registered document change callback")
	}

	return nil
}

// Rebuild rebuilds the menu for the active context.
func (c *Controller) Rebuild(reason string) error {
	if c.destroyed {
		return fmt.Errorf("controller is destroyed")
	}
	c.logger.Debug("rebuilding menu", slog.String("reason", reason))
	return c.Build()
}

// Invoke dispatches the command with the given identity through the
// deferred boundary. The command runs on a later scheduler tick; Invoke
// itself never fails beyond an unknown identity.
func (c *Controller) Invoke(id command.Identity, args ...any) error {
	invoke, ok := c.invokers[id]
	if !ok {
		return fmt.Errorf("unknown command %s", id)
	}
	invoke(args...)
	return nil
}

// HandleDocumentChanged resolves the new document path and drives the state
// machine. Outcomes that do not change the displayed state cause no rebuild.
func (c *Controller) HandleDocumentChanged(path string) {
	if c.destroyed {
		return
	}
	if c.opts.Resolver == nil {
		return
	}

	c.logger.Debug("document changed", slog.String("path", path))

	outcome := c.opts.Resolver.Resolve(path, c.current)
	switch outcome.Kind {
	case address.Resolved:
		c.switchTo(outcome.Context)
	case address.NoChange, address.Ambiguous, address.Failed:
		// Keep the current context and the current menu.
	}
}

// switchTo runs the external switch and transitions the state machine.
func (c *Controller) switchTo(next *address.Context) {
	c.state = StateSwitching

	var err error
	if c.opts.Switcher != nil {
		err = c.opts.Switcher.Switch(next)
	}

	if c.opts.Recorder != nil {
		if recErr := c.opts.Recorder.RecordSwitch(c.current.Display(), next.Display(), err); recErr != nil {
			c.logger.Warn("failed to record context switch", "error", recErr)
		}
	}

	if err != nil {
		// Context unchanged; show a disabled menu until a switch succeeds.
		c.logger.Error("could not change context from the active document, menu will be disabled",
			slog.String("target", next.Display()),
			"error", err)
		c.state = StateDisabled
		c.disabledReason = fmt.Sprintf("context switch to %s failed: %v", next.Display(), err)
		builder := &menu.Builder{Logger: c.logger}
		c.tree = builder.BuildDisabled(c.disabledReason)
		c.invokers = nil
		return
	}

	old := c.current
	c.current = next
	c.state = StateStable
	c.disabledReason = ""
	if buildErr := c.Rebuild("context changed"); buildErr != nil {
		c.logger.Error("menu rebuild failed after context switch", "error", buildErr)
		return
	}
	c.logger.Info("context changed",
		slog.String("from", old.Display()),
		slog.String("to", next.Display()))
}

// Destroy releases the document subscription and discards the tree.
// Idempotent: destroying an already-destroyed controller is a no-op.
// A deferred task already queued when Destroy runs still executes; the
// dispatch guard contains whatever error results from observing the
// destroyed state.
func (c *Controller) Destroy() {
	if c.destroyed {
		return
	}
	c.logger.Debug("destroying menu controller")

	c.docSub.Cancel()
	c.docSub = nil
	c.tree = nil
	c.invokers = nil
	c.destroyed = true
}
