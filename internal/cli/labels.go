package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samwho/ctrsnap/internal/render"
)

// NewLabelsCommand builds "labels": dump each running container's name and
// image labels, grounded on original_source/dlabel/main.py::labels.
func NewLabelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Show name and labels of running containers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabels(cmd.Context())
		},
	}
	return cmd
}

type labelsEntry struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels"`
}

func runLabels(ctx context.Context) error {
	c, inv, err := connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	containers, err := inv.ListContainers(ctx)
	if err != nil {
		return err
	}
	VerboseLog("found %d containers", len(containers))

	out := make([]labelsEntry, 0, len(containers))
	for _, cn := range containers {
		labels := cn.Labels
		if labels == nil {
			labels = map[string]string{}
		}
		out = append(out, labelsEntry{Name: cn.Name, Labels: labels})
	}

	data, err := render.Render(out, render.Format(OutputFormat()))
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
