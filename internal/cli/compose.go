package cli

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/samwho/ctrsnap/internal/compose"
	"github.com/samwho/ctrsnap/internal/render"
)

type composeFlags struct {
	output  string
	all     bool
	volume  bool
	project string
}

// NewComposeCommand builds "compose", grounded on
// original_source/dlabel/main.py::compose.
func NewComposeCommand() *cobra.Command {
	flags := &composeFlags{}

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Reconstruct a docker-compose document from running containers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.output, "output", "", "directory to write compose.yml and copied bind-mount contents into")
	cmd.Flags().BoolVar(&flags.all, "all", false, "include containers with no compose project label")
	cmd.Flags().BoolVar(&flags.volume, "volume", true, "copy relative bind-mount contents into --output")
	cmd.Flags().StringVar(&flags.project, "project", "*", "glob a container's compose project label must match")

	return cmd
}

func runCompose(ctx context.Context, flags *composeFlags) error {
	c, inv, err := connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	opts := compose.Options{
		All:     flags.all,
		Project: flags.project,
		Output:  flags.output,
		Volume:  flags.volume,
		Fs:      afero.NewOsFs(),
	}

	doc, err := compose.Reconstruct(ctx, inv, opts, newLogger())
	if err != nil {
		return err
	}

	data, err := render.Render(doc, render.Format(OutputFormat()))
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
