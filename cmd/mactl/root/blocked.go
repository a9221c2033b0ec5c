package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appengine-ltd/mine-anything/internal/config"
	"github.com/appengine-ltd/mine-anything/internal/ui"
)

func newBlockedCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "blocked",
		Aliases: []string{"blocklist"},
		Short:   "Manage sites where mining is disabled",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List blocked domain patterns",
			RunE: func(cmd *cobra.Command, args []string) error {
				rt, cleanup, err := openRuntime(cmd, e)
				if err != nil {
					return err
				}
				defer cleanup()
				patterns := rt.Blocklist.Patterns()
				if len(patterns) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No blocked sites."))
					return nil
				}
				for _, p := range patterns {
					fmt.Fprintln(cmd.OutOrStdout(), "- "+p)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <pattern>...",
			Short: "Block hosts; * matches one label, ** any number",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return editBlocklist(cmd, e, func(b *config.Blocklist) error {
					for _, p := range args {
						if err := b.Add(p); err != nil {
							return err
						}
						fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("Blocked "+config.NormalizeHost(p)))
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove <pattern>...",
			Short: "Unblock patterns",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return editBlocklist(cmd, e, func(b *config.Blocklist) error {
					for _, p := range args {
						if !b.Remove(p) {
							return fmt.Errorf("%s is not blocked", config.NormalizeHost(p))
						}
						fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("Unblocked "+config.NormalizeHost(p)))
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "check <host>",
			Short: "Report whether mining is allowed on host",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				rt, cleanup, err := openRuntime(cmd, e)
				if err != nil {
					return err
				}
				defer cleanup()
				host := config.NormalizeHost(args[0])
				if rt.Blocklist.Blocked(host) {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Bad.Render(host+": blocked"))
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(host+": allowed"))
				}
				return nil
			},
		},
	)
	return cmd
}

func editBlocklist(cmd *cobra.Command, e *env, edit func(*config.Blocklist) error) error {
	rt, cleanup, err := openRuntime(cmd, e)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := edit(rt.Blocklist); err != nil {
		return err
	}
	return rt.Blocklist.Save(cmd.Context(), rt.Store)
}
