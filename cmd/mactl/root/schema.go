package root

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/appengine-ltd/mine-anything/internal/config"
	"github.com/appengine-ltd/mine-anything/internal/game"
)

var schemaTargets = map[string]func() any{
	"profile":  func() any { return &game.Profile{} },
	"settings": func() any { return &config.Settings{} },
	"config":   func() any { return &config.AppConfig{} },
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema [profile|settings|config]",
		Short:     "Print the JSON schema of a stored record",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"profile", "settings", "config"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "profile"
			if len(args) == 1 {
				name = args[0]
			}
			target, ok := schemaTargets[name]
			if !ok {
				return fmt.Errorf("unknown record %q", name)
			}
			r := &jsonschema.Reflector{}
			data, err := json.MarshalIndent(r.Reflect(target()), "", "  ")
			if err != nil {
				return fmt.Errorf("marshal schema: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
