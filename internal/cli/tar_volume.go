package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/samwho/ctrsnap/internal/inventory"
	"github.com/samwho/ctrsnap/internal/model"
)

type tarVolumeFlags struct {
	image  string
	output string
	gzip   bool
}

// NewTarVolumeCommand builds "tar-volume", grounded on
// original_source/dlabel/main.py::tar_volume: mount the named volume
// read-only into a throwaway container and stream its contents out as a
// tar (optionally gzip-compressed) archive.
func NewTarVolumeCommand() *cobra.Command {
	flags := &tarVolumeFlags{}

	cmd := &cobra.Command{
		Use:   "tar-volume <volume>",
		Short: "Archive a volume's contents as a tar stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTarVolume(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.image, "image", "hello-world", "image used to create the throwaway mounting container")
	cmd.Flags().StringVar(&flags.output, "output", "-", "output path, or \"-\" for stdout")
	cmd.Flags().BoolVarP(&flags.gzip, "gzip", "z", false, "compress the tar stream with gzip")

	return cmd
}

func runTarVolume(ctx context.Context, volumeName string, flags *tarVolumeFlags) error {
	c, inv, err := connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if _, err := inv.GetVolume(ctx, volumeName); err != nil {
		return err
	}
	VerboseLog("volume %s found", volumeName)

	if err := inv.PullOrGetImage(ctx, flags.image); err != nil {
		return err
	}
	VerboseLog("image %s available locally", flags.image)

	mount := "/" + strings.Trim(volumeName, "/")
	containerID, err := inv.CreateEphemeral(ctx, flags.image, []inventory.EphemeralMount{
		{Source: volumeName, Target: mount, ReadOnly: true},
	})
	if err != nil {
		return err
	}
	VerboseLog("ephemeral container %s created, mounted at %s", containerID, mount)
	defer func() {
		if err := inv.RemoveEphemeral(ctx, containerID); err != nil {
			VerboseLog("warning: removing ephemeral container %s: %v", containerID, err)
		}
	}()

	rc, _, err := inv.GetArchive(ctx, containerID, mount)
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := openTarVolumeOutput(flags.output)
	if err != nil {
		return err
	}
	defer out.Close()

	var w io.Writer = out
	if flags.gzip {
		gz := gzip.NewWriter(out)
		defer gz.Close()
		w = gz
	}

	if _, err := io.Copy(w, rc); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "streaming volume archive", err)
	}
	return nil
}

func openTarVolumeOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "creating output "+path, err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
