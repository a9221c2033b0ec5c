package root

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/appengine-ltd/mine-anything/internal/config"
	"github.com/appengine-ltd/mine-anything/internal/ui"
)

func newSettingsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change user settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openRuntime(cmd, e)
			if err != nil {
				return err
			}
			defer cleanup()
			s := rt.Settings
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading("⚙️", "Settings"))
			fmt.Fprintln(out, ui.LabelValue("Toggle button", ui.OnOff(s.ShowToggle)))
			fmt.Fprintln(out, ui.LabelValue("Toggle position", s.TogglePosition))
			fmt.Fprintln(out, ui.LabelValue("Mining shortcut", strings.Join(s.MiningShortcut, "+")))
			fmt.Fprintln(out, ui.LabelValue("Debug", ui.OnOff(s.Debug)))
			return nil
		},
	}

	setShortcut := &cobra.Command{
		Use:   "set-shortcut <keys>",
		Short: `Set the hold-to-mine keys, e.g. "Ctrl+Shift"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := config.ParseShortcut(args[0])
			if err != nil {
				return err
			}
			return saveSettings(cmd, e, func(s *config.Settings) {
				s.MiningShortcut = keys
			}, "Mining shortcut set to "+strings.Join(keys, "+"))
		},
	}

	var hidden bool
	setToggle := &cobra.Command{
		Use:   "set-toggle <position>",
		Short: "Place the mining toggle: " + strings.Join(config.TogglePositions, ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos := strings.ToLower(args[0])
			if !slices.Contains(config.TogglePositions, pos) {
				return fmt.Errorf("unknown position %q (want one of %s)", args[0], strings.Join(config.TogglePositions, ", "))
			}
			return saveSettings(cmd, e, func(s *config.Settings) {
				s.TogglePosition = pos
				s.ShowToggle = !hidden
			}, "Toggle placed "+pos)
		},
	}
	setToggle.Flags().BoolVar(&hidden, "hidden", false, "hide the toggle button")

	var debug bool
	setDebug := &cobra.Command{
		Use:   "set-debug",
		Short: "Turn the debug console on or off",
		RunE: func(cmd *cobra.Command, args []string) error {
			return saveSettings(cmd, e, func(s *config.Settings) {
				s.Debug = debug
			}, "Debug "+map[bool]string{true: "enabled", false: "disabled"}[debug])
		},
	}
	setDebug.Flags().BoolVar(&debug, "on", false, "enable debug")

	cmd.AddCommand(show, setShortcut, setToggle, setDebug)
	return cmd
}

func saveSettings(cmd *cobra.Command, e *env, edit func(*config.Settings), done string) error {
	rt, cleanup, err := openRuntime(cmd, e)
	if err != nil {
		return err
	}
	defer cleanup()
	s := rt.Settings
	edit(&s)
	if err := rt.SaveSettings(cmd.Context(), s); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(done))
	return nil
}
