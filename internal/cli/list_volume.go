package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samwho/ctrsnap/internal/render"
)

// NewListVolumeCommand builds "list-volume", grounded on
// original_source/dlabel/main.py::list_volume.
func NewListVolumeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-volume",
		Short: "List volumes known to the container engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListVolume(cmd.Context())
		},
	}
	return cmd
}

func runListVolume(ctx context.Context) error {
	c, inv, err := connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	volumes, err := inv.ListVolumes(ctx)
	if err != nil {
		return err
	}
	VerboseLog("found %d volumes", len(volumes))

	data, err := render.Render(volumes, render.Format(OutputFormat()))
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
