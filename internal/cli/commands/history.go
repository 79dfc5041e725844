package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/stagecraft-labs/pipemenu/internal/cli/output"
	"github.com/stagecraft-labs/pipemenu/internal/state"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var (
		limit    int
		switches bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent command invocations",
		Long: `List recent command invocations, or context switches with --switches.
History is recorded by 'pipemenu run' and 'pipemenu watch'.`,
		Example: `  pipemenu history
  pipemenu history --limit 50
  pipemenu history --switches`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, limit, switches)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries to show")
	cmd.Flags().BoolVar(&switches, "switches", false, "Show context switches instead of invocations")
	return cmd
}

func runHistory(cmd *cobra.Command, limit int, switches bool) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	store, err := cc.OpenStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if switches {
		return renderSwitches(cc, store, limit)
	}
	return renderInvocations(cc, store, limit)
}

func renderInvocations(cc *CommandContext, store *state.Store, limit int) error {
	entries, err := store.RecentInvocations(limit)
	if err != nil {
		return err
	}
	if cc.Renderer.EffectiveMode() == output.ModeJSON {
		return cc.Renderer.JSON(entries)
	}
	if len(entries) == 0 {
		cc.Renderer.Dim("no invocations recorded")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := "ok"
		if e.Error != "" {
			status = e.Error
		}
		rows = append(rows, []string{
			e.At.Local().Format(time.DateTime),
			e.App,
			e.Command,
			status,
		})
	}
	cc.Renderer.Header(1, "Recent invocations")
	cc.Renderer.Table([]string{"When", "App", "Command", "Status"}, rows)
	return nil
}

func renderSwitches(cc *CommandContext, store *state.Store, limit int) error {
	entries, err := store.RecentSwitches(limit)
	if err != nil {
		return err
	}
	if cc.Renderer.EffectiveMode() == output.ModeJSON {
		return cc.Renderer.JSON(entries)
	}
	if len(entries) == 0 {
		cc.Renderer.Dim("no context switches recorded")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := "ok"
		if e.Error != "" {
			status = e.Error
		}
		rows = append(rows, []string{
			e.At.Local().Format(time.DateTime),
			e.From,
			e.To,
			status,
		})
	}
	cc.Renderer.Header(1, "Recent context switches")
	cc.Renderer.Table([]string{"When", "From", "To", "Status"}, rows)
	return nil
}
