package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appengine-ltd/mine-anything/internal/assets"
	"github.com/appengine-ltd/mine-anything/internal/ui"
)

func newAssetsCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Write placeholder textures for the window client",
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := assets.Generate(out)
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("  wrote "+p))
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("%d textures written to %s", len(written), out)))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "assets", "asset root directory")
	return cmd
}
