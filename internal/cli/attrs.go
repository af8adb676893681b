package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samwho/ctrsnap/internal/model"
	"github.com/samwho/ctrsnap/internal/render"
)

// NewAttrsCommand builds "attrs": dump each running container's name and
// full inspected attributes, grounded on
// original_source/dlabel/main.py::attrs. Where the source dumps the raw
// `ctn.attrs` API response verbatim, this command dumps the equivalent
// already-decoded ContainerSnapshot, since that is the structured form
// every other command in this repository consumes.
func NewAttrsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attrs",
		Short: "Show name and full attributes of running containers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAttrs(cmd.Context())
		},
	}
	return cmd
}

type attrsEntry struct {
	Name  string                 `json:"name"`
	Attrs model.ContainerSnapshot `json:"attrs"`
}

func runAttrs(ctx context.Context) error {
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

	out := make([]attrsEntry, 0, len(containers))
	for _, cn := range containers {
		out = append(out, attrsEntry{Name: cn.Name, Attrs: cn})
	}

	data, err := render.Render(out, render.Format(OutputFormat()))
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
