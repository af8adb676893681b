package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samwho/ctrsnap/internal/nginx"
)

type traefik2nginxFlags struct {
	traefikFile string
	baseconf    string
	serverURL   string
	ipaddr      bool
}

// NewTraefik2NginxCommand builds "traefik2nginx", grounded on
// original_source/dlabel/traefik.py::traefik2nginx.
func NewTraefik2NginxCommand() *cobra.Command {
	flags := &traefik2nginxFlags{}

	cmd := &cobra.Command{
		Use:   "traefik2nginx",
		Short: "Render nginx configuration from Traefik provider configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraefik2Nginx(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.traefikFile, "traefik-file", "", "path to a dumped traefik config (yaml/json/toml); live aggregation if unset")
	cmd.Flags().StringVar(&flags.baseconf, "baseconf", "", "path to an existing nginx config to splice routes into (.json/.jsonc is read as a directive tree)")
	cmd.Flags().StringVar(&flags.serverURL, "server-url", "http://localhost", "server URL used for the default server block and port")
	cmd.Flags().BoolVar(&flags.ipaddr, "ipaddr", false, "proxy_pass to each backend's container IP instead of its hostname")

	return cmd
}

func runTraefik2Nginx(cmd *cobra.Command, flags *traefik2nginxFlags) error {
	ctx := cmd.Context()
	cfg, err := loadTraefikConfig(ctx, flags.traefikFile)
	if err != nil {
		return err
	}

	baseConf, err := readNginxBaseConf(flags.baseconf)
	if err != nil {
		return err
	}

	out, err := nginx.Generate(cfg, baseConf, flags.serverURL, flags.ipaddr, newLogger())
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
