package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stagecraft-labs/pipemenu/internal/address"
	"github.com/stagecraft-labs/pipemenu/internal/cli/output"
)

// NewResolveCommand creates the resolve command.
func NewResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve a document path to a working context",
		Long: `Resolve a document path against the project's location patterns and
print the outcome. This is the same resolution the menu performs when
the active document changes.`,
		Example: `  pipemenu resolve shots/SH010/anim/scene.mg
  pipemenu resolve /tmp/unrelated.txt
  pipemenu resolve shots/SH010/scene.mg -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args[0])
		},
	}
	return cmd
}

type resolveJSON struct {
	Outcome string `json:"outcome"`
	Context string `json:"context,omitempty"`
	Display string `json:"display,omitempty"`
	Error   string `json:"error,omitempty"`
}

func runResolve(cmd *cobra.Command, path string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	current := cc.InitialContext()
	outcome := cc.Resolver().Resolve(path, current)

	if cc.Renderer.EffectiveMode() == output.ModeJSON {
		out := resolveJSON{Outcome: outcome.Kind.String()}
		if outcome.Kind == address.Resolved {
			out.Context = outcome.Context.Display()
		}
		if outcome.DisplayContext != nil {
			out.Display = outcome.DisplayContext.Display()
		}
		if outcome.Err != nil {
			out.Error = outcome.Err.Error()
		}
		return cc.Renderer.JSON(out)
	}

	rows := [][]string{
		{"Outcome", outcome.Kind.String()},
		{"Current", current.Display()},
	}
	switch outcome.Kind {
	case address.Resolved:
		rows = append(rows,
			[]string{"Context", outcome.Context.Display()},
			[]string{"Entity type", outcome.Context.EntityType},
			[]string{"Entity name", outcome.Context.EntityName},
		)
	case address.Ambiguous:
		if outcome.DisplayContext != nil {
			rows = append(rows, []string{"Display only", outcome.DisplayContext.Display()})
		}
	case address.Failed:
		rows = append(rows, []string{"Error", outcome.Err.Error()})
	}

	cc.Renderer.Header(1, fmt.Sprintf("Resolution for %s", path))
	cc.Renderer.Table([]string{"Field", "Value"}, rows)

	if outcome.Kind == address.Resolved && !outcome.Context.Equal(current) {
		cc.Renderer.Success("context would switch to %s", outcome.Context.Display())
	}
	return nil
}
