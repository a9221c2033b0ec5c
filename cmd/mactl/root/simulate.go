package root

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/appengine-ltd/mine-anything/internal/app"
	"github.com/appengine-ltd/mine-anything/internal/game"
	"github.com/appengine-ltd/mine-anything/internal/snapshot"
	"github.com/appengine-ltd/mine-anything/internal/ui"
)

func newSimulateCmd(e *env) *cobra.Command {
	var (
		pagePath string
		host     string
		mines    int
		seed     int64
		shotPath string
		width    int
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Mine a page unattended and report what dropped",
		Long:  "simulate mines elements of an HTML file (or a generated page) in document order on a virtual clock, answering encounters automatically. Progress is saved to the profile like a normal session.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if mines < 1 {
				return fmt.Errorf("--mines must be at least 1")
			}
			rt, cleanup, err := openRuntime(cmd, e)
			if err != nil {
				return err
			}
			defer cleanup()

			if !cmd.Flags().Changed("seed") {
				seed = rt.Config.Seed
			}
			doc, h, err := app.OpenPage(pagePath, host, seed)
			if err != nil {
				return err
			}
			rt.Navigate(doc, h)

			rep, err := rt.Autoplay(mines)
			if err != nil {
				return err
			}
			printReport(cmd, rt, rep)

			if shotPath != "" {
				if err := snapshot.SavePNG(shotPath, doc, snapshot.Options{Width: width, Viewport: true, Labels: true}); err != nil {
					return fmt.Errorf("snapshot: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Snapshot", shotPath))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pagePath, "page", "", "HTML file to mine (default: a generated page)")
	cmd.Flags().StringVar(&host, "host", "", "host the page is treated as coming from")
	cmd.Flags().IntVarP(&mines, "mines", "n", 10, "number of elements to mine")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for the generated page (default: config seed)")
	cmd.Flags().StringVar(&shotPath, "snapshot", "", "write a PNG of the mined page")
	cmd.Flags().IntVar(&width, "width", snapshot.DefaultWidth, "snapshot width in pixels")
	return cmd
}

func printReport(cmd *cobra.Command, rt *app.Runtime, rep app.AutoplayReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Heading("⛏️", "Simulation on "+rt.Host()))
	fmt.Fprintln(out, ui.LabelValue("Mined", rep.Mined))
	fmt.Fprintln(out, ui.LabelValue("XP gained", rep.XP))
	fmt.Fprintln(out, ui.LabelValue("Virtual time", rep.Elapsed))

	if len(rep.Drops) > 0 {
		fmt.Fprintln(out, ui.Key.Render("Drops"))
		for _, r := range game.Resources {
			if n := rep.Drops[r.ID]; n > 0 {
				fmt.Fprintf(out, "  %s %s: %d\n", r.Icon, r.Name, n)
			}
		}
	}
	if len(rep.Encounters) > 0 {
		kinds := make([]string, 0, len(rep.Encounters))
		for k := range rep.Encounters {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		fmt.Fprintln(out, ui.Key.Render("Encounters"))
		for _, k := range kinds {
			fmt.Fprintf(out, "  %s: %d\n", k, rep.Encounters[game.SpawnKind(k)])
		}
	}
	fmt.Fprintln(out, app.StatusLine(rt.Engine.Profile(), rt.Engine.Depth()))
}
