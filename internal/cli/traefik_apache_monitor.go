package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/samwho/ctrsnap/internal/aggregator"
	"github.com/samwho/ctrsnap/internal/apache"
	"github.com/samwho/ctrsnap/internal/inventory"
)

// NewTraefikApacheMonitorCommand builds "traefik-apache-monitor": the
// supervisor loop (internal/monitor) bound to the Apache dialect emitter.
func NewTraefikApacheMonitorCommand() *cobra.Command {
	flags := &monitorFlags{}

	cmd := &cobra.Command{
		Use:   "traefik-apache-monitor",
		Short: "Continuously regenerate and reload Apache configuration from Traefik labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProxyMonitor(cmd, flags, apacheRender)
		},
	}
	registerMonitorFlags(cmd, flags)
	return cmd
}

func apacheRender(ctx context.Context, inv inventory.Adapter, baseConf, serverURL string, ipaddr bool) (string, error) {
	cfg, err := aggregator.Aggregate(ctx, inv, newLogger())
	if err != nil {
		return "", err
	}
	return apache.Generate(*cfg, baseConf, serverURL, ipaddr, newLogger())
}
