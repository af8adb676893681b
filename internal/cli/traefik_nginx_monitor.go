package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/samwho/ctrsnap/internal/aggregator"
	"github.com/samwho/ctrsnap/internal/inventory"
	"github.com/samwho/ctrsnap/internal/nginx"
)

// NewTraefikNginxMonitorCommand builds "traefik-nginx-monitor": the
// supervisor loop (internal/monitor) bound to the nginx dialect emitter.
func NewTraefikNginxMonitorCommand() *cobra.Command {
	flags := &monitorFlags{}

	cmd := &cobra.Command{
		Use:   "traefik-nginx-monitor",
		Short: "Continuously regenerate and reload nginx configuration from Traefik labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNginxProxyMonitor(cmd, flags, nginxRender)
		},
	}
	registerMonitorFlags(cmd, flags)
	return cmd
}

func nginxRender(ctx context.Context, inv inventory.Adapter, baseConf, serverURL string, ipaddr bool) (string, error) {
	cfg, err := aggregator.Aggregate(ctx, inv, newLogger())
	if err != nil {
		return "", err
	}
	return nginx.Generate(*cfg, baseConf, serverURL, ipaddr, newLogger())
}
