package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/appengine-ltd/mine-anything/internal/ui"
)

const Version = "0.1.0"

type env struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	e := &env{}
	cmd := &cobra.Command{
		Use:           "mactl",
		Short:         "Mine Anything control tool",
		Long:          "mactl inspects and edits the saved Mine Anything profile, settings and blocklist, and runs unattended mining sessions.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	cmd.PersistentFlags().StringVar(&e.configPath, "config", "", "config file (default ~/.mine-anything/config.yaml)")

	cmd.AddCommand(
		newProfileCmd(e),
		newBlockedCmd(e),
		newSettingsCmd(e),
		newSimulateCmd(e),
		newDebugCmd(e),
		newSchemaCmd(),
		newAssetsCmd(),
		newUpdateCmd(),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render("⛔ "+err.Error()))
		os.Exit(1)
	}
}
