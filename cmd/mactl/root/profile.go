package root

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/appengine-ltd/mine-anything/internal/app"
	"github.com/appengine-ltd/mine-anything/internal/game"
	"github.com/appengine-ltd/mine-anything/internal/ui"
)

func newProfileCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show, export, import or reset the saved profile",
	}
	cmd.AddCommand(newProfileShowCmd(e), newProfileExportCmd(e), newProfileImportCmd(e), newProfileResetCmd(e))
	return cmd
}

func newProfileShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show progression, inventory and collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openRuntime(cmd, e)
			if err != nil {
				return err
			}
			defer cleanup()

			p := rt.Engine.Profile()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading("⛏️", "Profile"))
			fmt.Fprintln(out, app.StatusLine(p, game.DepthAt(0, 0)))
			fmt.Fprintln(out, ui.LabelValue("Total mined", p.TotalMined))
			fmt.Fprintln(out, ui.LabelValue("Deep mines", p.DeepMiningCount))
			fmt.Fprintln(out, ui.LabelValue("Challenges completed", p.ChallengesCompleted))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.Key.Render("Resources"))
			for _, line := range app.ResourceLines(p) {
				fmt.Fprintln(out, "  "+line)
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.Key.Render("Pets"))
			for _, pet := range game.Pets {
				st := p.Pets[pet.ID]
				switch {
				case st != nil && st.Collected:
					fmt.Fprintf(out, "  %s %s %s\n", pet.Icon, pet.Name, ui.Good.Render(fmt.Sprintf("collected, %d uses", st.Uses)))
				default:
					fmt.Fprintf(out, "  %s %s %s\n", pet.Icon, pet.Name, ui.Muted.Render("not found"))
				}
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.Key.Render("Enchantments"))
			if len(p.EnchantInventory) == 0 {
				fmt.Fprintln(out, "  "+ui.Muted.Render("none"))
			}
			active, _ := p.ActiveEnchantment()
			for i, slot := range p.EnchantInventory {
				name := string(slot.Type)
				if ench, ok := game.LookupEnchantment(slot.Type); ok {
					name = ench.Name
				}
				mark := ""
				if p.ActiveEnchantIndex != nil && *p.ActiveEnchantIndex == i && active == slot.Type {
					mark = " " + ui.Good.Render("active")
				}
				fmt.Fprintf(out, "  %d. %s %d/%d%s\n", i, name, slot.Durability, slot.MaxDurability, mark)
			}
			fmt.Fprintln(out, "")

			earned := make([]string, 0, len(p.Achievements))
			for _, a := range game.Achievements {
				if p.Achievements[a.ID] {
					earned = append(earned, a.Name)
				}
			}
			sort.Strings(earned)
			fmt.Fprintln(out, ui.LabelValue("Achievements", fmt.Sprintf("%d/%d", len(earned), len(game.Achievements))))
			if len(earned) > 0 {
				fmt.Fprintln(out, "  "+strings.Join(earned, ", "))
			}
			return nil
		},
	}
}

func newProfileExportCmd(e *env) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the profile as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openRuntime(cmd, e)
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := json.MarshalIndent(rt.Engine.Profile(), "", "  ")
			if err != nil {
				return fmt.Errorf("encode profile: %w", err)
			}
			data = append(data, '\n')
			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("Exported to "+outPath))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newProfileImportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the profile with a saved JSON record, migrating old saves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			migrated, changed, err := game.MigrateProfile(raw)
			if err != nil {
				return err
			}
			p := &game.Profile{}
			if err := json.Unmarshal(migrated, p); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			p.Normalize()

			rt, cleanup, err := openRuntime(cmd, e)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := game.SaveProfile(cmd.Context(), rt.Store, p); err != nil {
				return err
			}
			msg := fmt.Sprintf("Imported profile: %d XP, %d mined", p.XP, p.TotalMined)
			if changed {
				msg += " (migrated from an older save)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(msg))
			return nil
		},
	}
}

func newProfileResetCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			rt, cleanup, err := openRuntime(cmd, e)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := game.SaveProfile(cmd.Context(), rt.Store, game.NewProfile()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("Profile reset."))
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
