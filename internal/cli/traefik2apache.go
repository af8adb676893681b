package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samwho/ctrsnap/internal/apache"
)

type traefik2apacheFlags struct {
	traefikFile string
	baseconf    string
	serverURL   string
	ipaddr      bool
}

// NewTraefik2ApacheCommand builds "traefik2apache", grounded on
// original_source/dlabel/traefik.py::traefik2apache.
func NewTraefik2ApacheCommand() *cobra.Command {
	flags := &traefik2apacheFlags{}

	cmd := &cobra.Command{
		Use:   "traefik2apache",
		Short: "Render Apache configuration from Traefik provider configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraefik2Apache(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.traefikFile, "traefik-file", "", "path to a dumped traefik config (yaml/json/toml); live aggregation if unset")
	cmd.Flags().StringVar(&flags.baseconf, "baseconf", "", "path to an existing Apache VirtualHost config to splice routes into")
	cmd.Flags().StringVar(&flags.serverURL, "server-url", "http://localhost", "server URL used for the default VirtualHost and port")
	cmd.Flags().BoolVar(&flags.ipaddr, "ipaddr", false, "proxy to each backend's container IP instead of its hostname")

	return cmd
}

func runTraefik2Apache(cmd *cobra.Command, flags *traefik2apacheFlags) error {
	ctx := cmd.Context()
	cfg, err := loadTraefikConfig(ctx, flags.traefikFile)
	if err != nil {
		return err
	}

	baseConf, err := readBaseConf(flags.baseconf)
	if err != nil {
		return err
	}

	out, err := apache.Generate(cfg, baseConf, flags.serverURL, flags.ipaddr, newLogger())
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
