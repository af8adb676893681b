package cli

import (
	"github.com/spf13/cobra"

	"github.com/samwho/ctrsnap/internal/model"
)

// NewServerCommand builds "server": a documented stub. The HTTP façade
// is scoped as an interface definition only, not a bundled implementation;
// the command exists so `--help` and scripting against its exit code
// behave predictably, but running it always fails.
func NewServerCommand() *cobra.Command {
	var listen, port, schema string

	cmd := &cobra.Command{
		Use:   "server",
		Short: "HTTP façade (not implemented in this binary)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return model.NewCLIError(model.ExitGeneralError,
				"the HTTP façade ships as an interface definition only; no server is bundled with this binary")
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "0.0.0.0", "listen address (unused, see command help)")
	cmd.Flags().StringVar(&port, "port", "8080", "listen port (unused, see command help)")
	cmd.Flags().StringVar(&schema, "schema", "", "OpenAPI schema path (unused, see command help)")

	return cmd
}
