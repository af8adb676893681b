package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/samwho/ctrsnap/internal/model"
)

// NewDiffSBOMCommand builds "diff-sbom": a thin report over a container's
// filesystem diff, grounded on the same diff primitives
// compose.py/dockerfile.py already consume.
func NewDiffSBOMCommand() *cobra.Command {
	var containerID string

	cmd := &cobra.Command{
		Use:   "diff-sbom <container>",
		Short: "Report a container's filesystem delta against its image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			containerID = args[0]
			return runDiffSBOM(cmd.Context(), containerID)
		},
	}
	return cmd
}

func runDiffSBOM(ctx context.Context, containerID string) error {
	c, inv, err := connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	diffs, err := inv.Diff(ctx, containerID)
	if err != nil {
		return err
	}
	VerboseLog("%d diff entries for %s", len(diffs), containerID)

	sort.Slice(diffs, func(i, j int) bool { return diffs[i].Path < diffs[j].Path })

	for _, d := range diffs {
		fmt.Printf("%s  %s\n", diffKindLabel(d.Kind), d.Path)
	}
	return nil
}

func diffKindLabel(k model.DiffKind) string {
	switch k {
	case model.DiffModified:
		return "M"
	case model.DiffAdded:
		return "A"
	case model.DiffDeleted:
		return "D"
	default:
		return "?"
	}
}
