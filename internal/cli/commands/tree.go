package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/stagecraft-labs/pipemenu/internal/address"
	"github.com/stagecraft-labs/pipemenu/internal/cli/output"
	"github.com/stagecraft-labs/pipemenu/internal/enable"
	"github.com/stagecraft-labs/pipemenu/internal/menu"
)

var (
	groupStyle    = lipgloss.NewStyle().Bold(true)
	disabledStyle = lipgloss.NewStyle().Faint(true)
	tooltipStyle  = lipgloss.NewStyle().Faint(true).Italic(true)
)

// NewTreeCommand creates the tree command.
func NewTreeCommand() *cobra.Command {
	var forPath string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Build and print the menu tree",
		Long: `Build the menu for the active context and print its structure.

The tree shows the context sub-menu, the favourites section, inlined
single-command apps, and the app sub-menus, exactly as a host would
render them.`,
		Example: `  # Menu for the project context
  pipemenu tree

  # Menu for the context a document resolves to
  pipemenu tree --for shots/SH010/scene.mg

  # Machine-readable structure
  pipemenu tree -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTree(cmd, forPath)
		},
	}

	cmd.Flags().StringVar(&forPath, "for", "", "Resolve this document path and build the menu for its context")
	return cmd
}

func runTree(cmd *cobra.Command, forPath string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	ctx := cc.InitialContext()
	if forPath != "" {
		outcome := cc.Resolver().Resolve(forPath, ctx)
		if outcome.Kind == address.Resolved {
			ctx = outcome.Context
		} else {
			cc.Renderer.Dim(fmt.Sprintf("resolution: %s; using project context", outcome.Kind))
		}
	}

	builder := &menu.Builder{
		ContextLabel:     ctx.Display(),
		DedupeFavourites: cc.Config.DedupeFavourites,
		Logger:           cc.Logger,
	}
	tree, err := builder.Build(cc.Descriptors(ctx), cc.Config.Favourites)
	if err != nil {
		return fmt.Errorf("failed to build menu: %w", err)
	}

	if cc.Renderer.EffectiveMode() == output.ModeJSON {
		return cc.Renderer.JSON(treeJSON(tree))
	}

	cc.Renderer.Header(1, cc.Config.MenuTitle())
	printNode(cc, tree, ctx, 0)
	return nil
}

func printNode(cc *CommandContext, n *menu.Node, ctx *address.Context, depth int) {
	for _, child := range n.Children() {
		indent := strings.Repeat("  ", depth)
		switch child.Kind {
		case menu.KindDivider:
			fmt.Fprintf(cc.Renderer.Out(), "%s──────────\n", indent)
		case menu.KindGroup:
			fmt.Fprintf(cc.Renderer.Out(), "%s%s\n", indent, groupStyle.Render(child.Label+"/"))
			printNode(cc, child, ctx, depth+1)
		default:
			label := child.Label
			if !leafEnabled(cc, child, ctx) {
				label = disabledStyle.Render(label + " (disabled)")
			}
			line := indent + label
			if child.Tooltip != "" {
				line += "  " + tooltipStyle.Render(child.Tooltip)
			}
			fmt.Fprintln(cc.Renderer.Out(), line)
		}
	}
}

func leafEnabled(cc *CommandContext, n *menu.Node, ctx *address.Context) bool {
	if n.Disabled {
		return false
	}
	if n.Command == nil || n.Command.Properties.EnableWhen == "" {
		return true
	}
	ok, err := enable.Eval(n.Command.Properties.EnableWhen, ctx)
	if err != nil {
		cc.Logger.Warn("enable predicate failed, disabling command",
			"command", n.Command.Name, "error", err)
		return false
	}
	return ok
}

// nodeJSON is the serializable tree shape.
type nodeJSON struct {
	Label    string     `json:"label,omitempty"`
	Kind     string     `json:"kind"`
	Tooltip  string     `json:"tooltip,omitempty"`
	Disabled bool       `json:"disabled,omitempty"`
	Children []nodeJSON `json:"children,omitempty"`
}

func treeJSON(n *menu.Node) nodeJSON {
	out := nodeJSON{
		Label:    n.Label,
		Kind:     n.Kind.String(),
		Tooltip:  n.Tooltip,
		Disabled: n.Disabled,
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, treeJSON(c))
	}
	return out
}
