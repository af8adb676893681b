package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samwho/ctrsnap/internal/aggregator"
	"github.com/samwho/ctrsnap/internal/render"
)

// NewTraefikDumpCommand builds "traefik-dump", grounded on
// original_source/dlabel/traefik.py::traefik_dump.
func NewTraefikDumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traefik-dump",
		Short: "Aggregate Traefik provider configuration from running containers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraefikDump(cmd.Context())
		},
	}
	return cmd
}

func runTraefikDump(ctx context.Context) error {
	c, inv, err := connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	cfg, err := aggregator.Aggregate(ctx, inv, newLogger())
	if err != nil {
		return err
	}

	data, err := render.Render(cfg.CanonicalMap(), render.Format(OutputFormat()))
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
