package root

import (
	"github.com/spf13/cobra"

	"github.com/appengine-ltd/mine-anything/internal/app"
)

func openRuntime(cmd *cobra.Command, e *env) (*app.Runtime, func(), error) {
	rt, err := app.Open(cmd.Context(), app.Options{ConfigPath: e.configPath, Component: "mactl"})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = rt.Close()
	}
	return rt, cleanup, nil
}
