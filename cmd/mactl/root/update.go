package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/appengine-ltd/mine-anything/internal/ui"
	"github.com/appengine-ltd/mine-anything/internal/update"
)

var newUpdater = func() *update.Updater { return update.New("mactl") }

func newUpdateCmd() *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check for a newer mactl release",
		Long:  "update compares this build with the latest GitHub release. With --apply it downloads the matching archive, verifies its checksum and replaces the running binary.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			u := newUpdater()
			out := cmd.OutOrStdout()
			if !apply {
				st, _, err := u.Check(ctx, Version)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, st.String())
				if st.Available {
					fmt.Fprintln(out, ui.Muted.Render("Run mactl update --apply to install."))
				}
				return nil
			}
			st, err := u.Apply(ctx, Version)
			if err != nil {
				return err
			}
			if st.Available {
				fmt.Fprintln(out, ui.Good.Render(fmt.Sprintf("Installed v%s.", st.Latest)))
				return nil
			}
			fmt.Fprintln(out, st.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "download and install the update")
	return cmd
}
