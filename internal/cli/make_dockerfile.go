package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/samwho/ctrsnap/internal/imagedelta"
	"github.com/samwho/ctrsnap/internal/model"
)

type makeDockerfileFlags struct {
	id     string
	name   string
	output string
	ignore []string
	labels bool
}

// NewMakeDockerfileCommand builds "make-dockerfile", grounded on
// original_source/dlabel/dockerfile.py::get_dockerfile.
func NewMakeDockerfileCommand() *cobra.Command {
	flags := &makeDockerfileFlags{labels: true}

	cmd := &cobra.Command{
		Use:   "make-dockerfile",
		Short: "Build a Dockerfile and tarballs reproducing a container's filesystem delta",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMakeDockerfile(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.id, "id", "", "container ID to snapshot")
	cmd.Flags().StringVar(&flags.name, "name", "", "container name to snapshot")
	cmd.Flags().StringVar(&flags.output, "output", ".", "directory to write the Dockerfile and tarballs into")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "path glob to exclude from the archived delta (repeatable)")
	cmd.Flags().BoolVar(&flags.labels, "labels", true, "append LABEL lines for container labels differing from the image")

	return cmd
}

func runMakeDockerfile(ctx context.Context, flags *makeDockerfileFlags) error {
	if flags.id == "" && flags.name == "" {
		return model.NewCLIError(model.ExitGeneralError, "one of --id or --name is required")
	}

	c, inv, err := connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	containers, err := inv.ListContainers(ctx)
	if err != nil {
		return err
	}

	var target *model.ContainerSnapshot
	for i := range containers {
		if (flags.id != "" && containers[i].ID == flags.id) || (flags.name != "" && containers[i].Name == flags.name) {
			target = &containers[i]
			break
		}
	}
	if target == nil {
		notFound := &model.NotFound{Path: flags.id + flags.name}
		return model.WrapCLIError(model.ExitNotFound, "no matching container", notFound)
	}
	VerboseLog("snapshotting container %s (%s)", target.Name, target.ID)

	manifest, err := imagedelta.BuildDockerfile(ctx, inv, target.ID, target.Image, target.Labels, target.ImageLabels,
		imagedelta.Options{Ignore: flags.ignore, Labels: flags.labels}, newLogger())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(flags.output, 0o755); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "creating output directory "+flags.output, err)
	}
	for _, entry := range manifest.Entries {
		path := filepath.Join(flags.output, entry.Name)
		if err := os.WriteFile(path, entry.Data, 0o644); err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "writing "+path, err)
		}
		VerboseLog("wrote %s (%d bytes)", path, len(entry.Data))
	}
	return nil
}
