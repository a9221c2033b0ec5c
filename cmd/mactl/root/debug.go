package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDebugCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "debug [command...]",
		Short: "Run a debug console command against the saved profile",
		Example: `  mactl debug add-xp 500
  mactl debug add-resource diamond 3
  mactl debug help`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openRuntime(cmd, e)
			if err != nil {
				return err
			}
			defer cleanup()
			line := strings.Join(args, " ")
			if line == "" {
				line = "help"
			}
			lines, err := rt.Debug.Run(line)
			for _, l := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			return err
		},
	}
}
